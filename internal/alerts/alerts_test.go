package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

func TestExpoSendPayload(t *testing.T) {
	var got expoMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewExpoClient(srv.URL).Send(context.Background(), "ExponentPushToken[abc]", "New Trade Proposal", "You have a new proposal", map[string]string{"connection_id": "c1"})
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[abc]", got.To)
	assert.Equal(t, "default", got.Sound)
	assert.Equal(t, "New Trade Proposal", got.Title)
	assert.Equal(t, "c1", got.Data["connection_id"])
}

func TestExpoSendReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewExpoClient(srv.URL).Send(context.Background(), "bad", "t", "b", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}

func TestNotifyNeverBlocksOrFails(t *testing.T) {
	var (
		mu    sync.Mutex
		tasks []string
		done  = make(chan struct{}, 1)
	)
	n := &Notifier{
		enqueue: func(task *asynq.Task) error {
			mu.Lock()
			tasks = append(tasks, task.Type())
			mu.Unlock()
			done <- struct{}{}
			return errors.New("redis down")
		},
		inApp: func(context.Context, Notification) error { return errors.New("db down") },
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, Notification{UserID: "u1", Type: TypeProposalNew, Title: "New Trade Proposal"})
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{TaskProposalNew}, tasks)
}

func TestTaskFor(t *testing.T) {
	assert.Equal(t, TaskMatchNew, taskFor(TypeMatchNew))
	assert.Equal(t, TaskProposalStatus, taskFor(TypeProposalStatus))
	assert.Equal(t, TaskMessageNew, taskFor(TypeMessageNew))
}

type fakeTokens map[string]string

func (f fakeTokens) PushToken(_ context.Context, userID string) (string, error) {
	token, ok := f[userID]
	if !ok {
		return "", apperr.NotFound("user %s not found", userID)
	}
	return token, nil
}

type fakeExpo struct {
	err  error
	sent []string
}

func (f *fakeExpo) Send(_ context.Context, to, _, _ string, _ map[string]string) error {
	f.sent = append(f.sent, to)
	return f.err
}

type fakeWeb struct {
	err   error
	users []string
}

func (f *fakeWeb) SendToUser(_ context.Context, userID, _, _ string, _ map[string]string) error {
	f.users = append(f.users, userID)
	return f.err
}

func TestPushReachesWebWhenExpoFails(t *testing.T) {
	expo := &fakeExpo{err: errors.New("expo unavailable")}
	web := &fakeWeb{}
	d := dispatcher{tokens: fakeTokens{"u1": "ExponentPushToken[u1]"}, expo: expo, web: web}

	err := d.push(context.Background(), TaskMessageNew, PushPayload{Notification: Notification{UserID: "u1", Title: "New Message"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expo unavailable")
	assert.Equal(t, []string{"ExponentPushToken[u1]"}, expo.sent)
	assert.Equal(t, []string{"u1"}, web.users)
}

func TestPushJoinsChannelFailures(t *testing.T) {
	expo := &fakeExpo{err: errors.New("expo unavailable")}
	web := &fakeWeb{err: errors.New("push service unavailable")}
	d := dispatcher{tokens: fakeTokens{"u1": "tok"}, expo: expo, web: web}

	err := d.push(context.Background(), TaskMatchNew, PushPayload{Notification: Notification{UserID: "u1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expo unavailable")
	assert.Contains(t, err.Error(), "push service unavailable")
}

func TestPushSkipsMissingRecipientsAndTokens(t *testing.T) {
	expo := &fakeExpo{}
	web := &fakeWeb{}
	d := dispatcher{tokens: fakeTokens{"no-token": ""}, expo: expo, web: web}

	require.NoError(t, d.push(context.Background(), TaskMatchNew, PushPayload{Notification: Notification{UserID: "gone"}}))
	require.NoError(t, d.push(context.Background(), TaskMatchNew, PushPayload{Notification: Notification{UserID: "no-token"}}))
	assert.Empty(t, expo.sent)
	assert.Equal(t, []string{"gone", "no-token"}, web.users)
}
