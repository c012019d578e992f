package trade

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/alerts"
	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type plants map[string]plant.Plant

func (p plants) Get(_ context.Context, id string) (plant.Plant, error) {
	pl, ok := p[id]
	if !ok {
		return pl, apperr.NotFound("plant %s not found", id)
	}
	return pl, nil
}

type recorder struct {
	mu    sync.Mutex
	notes []alerts.Notification
}

func (r *recorder) Notify(_ context.Context, n alerts.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

const connID = "c0nn"

type fixture struct {
	svc      *Service
	store    *memStore
	notifier *recorder
	plants   plants
}

func newFixture() *fixture {
	conns := connection.NewMemStore()
	conns.Put(connection.Connection{ID: connID, UserID1: "alice", UserID2: "bob", IsActive: true})
	conns.Put(connection.Connection{ID: "other", UserID1: "alice", UserID2: "carol", IsActive: true})
	ps := plants{
		"a1": {ID: "a1", UserID: "alice"},
		"a2": {ID: "a2", UserID: "alice"},
		"b1": {ID: "b1", UserID: "bob"},
		"bt": {ID: "bt", UserID: "bob", IsTraded: true},
		"c1": {ID: "c1", UserID: "carol"},
	}
	store := newMemStore()
	n := &recorder{}
	return &fixture{
		svc:      NewService(store, connection.NewService(conns), ps, n, nil),
		store:    store,
		notifier: n,
		plants:   ps,
	}
}

func TestProposalLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.CreateProposal(ctx, connID, "alice", []string{"a1"}, []string{"b1"})
	require.NoError(t, err)
	assert.Equal(t, Pending, p.Status)
	assert.Equal(t, "alice", p.OwnerUserID)

	p, err = f.svc.UpdateStatus(ctx, connID, p.ID, "bob", Accepted)
	require.NoError(t, err)
	assert.NotNil(t, p.AcceptedAt)
	assert.Nil(t, p.DeclinedAt)

	p, err = f.svc.UpdateStatus(ctx, connID, p.ID, "alice", Completed)
	require.NoError(t, err)
	assert.NotNil(t, p.CompletedAt)

	p, err = f.svc.ConfirmCompletion(ctx, connID, p.ID, "alice")
	require.NoError(t, err)
	assert.True(t, p.OwnerCompletionConfirmed)

	_, err = f.svc.ConfirmCompletion(ctx, connID, p.ID, "alice")
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

	p, err = f.svc.ConfirmCompletion(ctx, connID, p.ID, "bob")
	require.NoError(t, err)
	assert.True(t, p.OwnerCompletionConfirmed)
	assert.True(t, p.ResponderCompletionConfirmed)

	stored, err := f.store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.BothConfirmed())
	assert.False(t, f.plants["a1"].IsTraded)
}

func TestCompletedRequiresAccepted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProposal(ctx, connID, "alice", []string{"a1"}, []string{"b1"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, connID, p.ID, "bob", Completed)
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

	_, err = f.svc.UpdateStatus(ctx, connID, p.ID, "bob", Rejected)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, connID, p.ID, "bob", Completed)
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))
}

func TestCreateProposalSides(t *testing.T) {
	f := newFixture()
	p, err := f.svc.CreateProposal(context.Background(), connID, "bob", []string{"b1"}, []string{"a1", "a2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, p.PlantsOfferedByUser1)
	assert.Equal(t, []string{"b1"}, p.PlantsOfferedByUser2)

	require.Len(t, f.notifier.notes, 1)
	assert.Equal(t, "alice", f.notifier.notes[0].UserID)
	assert.Equal(t, "New Trade Proposal", f.notifier.notes[0].Title)
	assert.Equal(t, alerts.TypeProposalNew, f.notifier.notes[0].Type)
}

func TestCreateProposalValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name      string
		conn      string
		user      string
		offered   []string
		requested []string
		kind      apperr.Kind
	}{
		{"missing connection", "nope", "alice", []string{"a1"}, []string{"b1"}, apperr.KindNotFound},
		{"non participant", connID, "carol", []string{"c1"}, []string{"b1"}, apperr.KindAuthorization},
		{"empty offer", connID, "alice", nil, []string{"b1"}, apperr.KindValidation},
		{"empty request", connID, "alice", []string{"a1"}, []string{}, apperr.KindValidation},
		{"offering other side", connID, "alice", []string{"b1"}, []string{"b1"}, apperr.KindValidation},
		{"requesting own plant", connID, "alice", []string{"a1"}, []string{"a2"}, apperr.KindValidation},
		{"outsider plant", connID, "alice", []string{"a1"}, []string{"c1"}, apperr.KindValidation},
		{"traded plant", connID, "alice", []string{"a1"}, []string{"bt"}, apperr.KindValidation},
		{"duplicate", connID, "alice", []string{"a1", "a1"}, []string{"b1"}, apperr.KindValidation},
		{"unknown plant", connID, "alice", []string{"a1"}, []string{"zz"}, apperr.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateProposal(ctx, tc.conn, tc.user, tc.offered, tc.requested)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}
	assert.Empty(t, f.notifier.notes)
}

func TestNonParticipantGetsAuthorizationError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProposal(ctx, connID, "alice", []string{"a1"}, []string{"b1"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, connID, p.ID, "carol", Accepted)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	_, err = f.svc.UpdateStatus(ctx, connID, "missing", "carol", Accepted)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	_, err = f.svc.ConfirmCompletion(ctx, connID, p.ID, "carol")
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	_, err = f.svc.List(ctx, connID, "carol")
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
}

func TestProposalScopedToConnection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProposal(ctx, connID, "alice", []string{"a1"}, []string{"b1"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, "other", p.ID, "alice", Accepted)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestStaleVersionIsRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProposal(ctx, connID, "alice", []string{"a1"}, []string{"b1"})
	require.NoError(t, err)

	stale, err := f.store.Get(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, connID, p.ID, "bob", Accepted)
	require.NoError(t, err)

	rejected, err := Transition(stale, Rejected, stale.CreatedAt)
	require.NoError(t, err)
	err = f.store.Update(ctx, &rejected)
	assert.True(t, apperr.Is(err, apperr.KindConcurrency))

	current, err := f.store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, Accepted, current.Status)
}

func TestConcurrentDecisionsHaveOneWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := f.svc.CreateProposal(ctx, connID, "alice", []string{"a1"}, []string{"b1"})
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, to := range []Status{Accepted, Rejected} {
		wg.Add(1)
		go func(i int, to Status) {
			defer wg.Done()
			_, errs[i] = f.svc.UpdateStatus(ctx, connID, p.ID, "bob", to)
		}(i, to)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Contains(t, []apperr.Kind{apperr.KindConcurrency, apperr.KindBusinessRule}, apperr.KindOf(err))
	}
	assert.Equal(t, 1, wins)
}
