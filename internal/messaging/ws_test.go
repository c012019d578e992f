package messaging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hubServer upgrades every request and registers it on connectionID.
func hubServer(t *testing.T, hub *Hub, connectionID string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := hub.register(connectionID, ws)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				hub.unregister(connectionID, cl)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func roomCount(h *Hub) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub, "c1")

	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Clients("c1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("c2", "message_new", "not for you")
	hub.Broadcast("c1", "match_new", map[string]string{"match_id": "m1"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "match_new", evt.Type)
	assert.Equal(t, "m1", evt.Data["match_id"])
}

func TestBroadcastDropsClientThatStoppedReading(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub, "c1")

	stalled, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer stalled.Close()
	require.Eventually(t, func() bool { return hub.Clients("c1") == 1 }, time.Second, 10*time.Millisecond)

	big := strings.Repeat("x", 256<<10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Broadcast("c1", "message_new", big)
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Broadcast waited on a client that stopped reading")
	}
	assert.Equal(t, 0, hub.Clients("c1"))
}

func TestRoomsAreReleased(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub, "c1")

	hub.Broadcast("nobody-watching", "message_new", "x")
	assert.Equal(t, 0, roomCount(hub))

	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return roomCount(hub) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, client.Close())
	require.Eventually(t, func() bool { return roomCount(hub) == 0 }, 2*time.Second, 10*time.Millisecond)
}
