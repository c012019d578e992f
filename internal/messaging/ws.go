package messaging

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

const (
	sendBuffer = 64
	pingPeriod = 25 * time.Second
)

// writeWait bounds every socket write so a stalled peer cannot pin its writer.
var writeWait = 10 * time.Second

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

// Hub fans events out to the websocket clients watching each connection.
// Broadcast never waits on a socket: every client has its own buffered queue
// and writer goroutine, and a client whose queue is full is dropped.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*client]struct{})}
}

// Broadcast queues an event for every client of connectionID.
func (h *Hub) Broadcast(connectionID, eventType string, data interface{}) {
	payload, err := json.Marshal(wsEvent{Type: eventType, Data: data})
	if err != nil {
		log.Printf("[ws] failed to encode %s event: %v", eventType, err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.rooms[connectionID] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("[ws] dropping slow client on connection %s", connectionID)
		h.unregister(connectionID, c)
	}
}

// Clients reports how many sockets watch connectionID.
func (h *Hub) Clients(connectionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[connectionID])
}

func (h *Hub) register(connectionID string, conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.rooms[connectionID] == nil {
		h.rooms[connectionID] = make(map[*client]struct{})
	}
	h.rooms[connectionID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()
	return c
}

// unregister removes c, drops the room once it is empty, and closes the socket.
func (h *Hub) unregister(connectionID string, c *client) {
	h.mu.Lock()
	if set, ok := h.rooms[connectionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, connectionID)
		}
	}
	h.mu.Unlock()
	c.close()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GET /connections/:id/ws
func (h *Handler) WS(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID := c.Param("id")
	if err := apperr.RequireID("connection id", connID); err != nil {
		return apperr.JSON(c, err)
	}
	if _, err := h.svc.connections.ForParticipant(c.Request().Context(), connID, userID); err != nil {
		return apperr.JSON(c, err)
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	cl := h.hub.register(connID, ws)
	h.hub.Broadcast(connID, "presence_join", echo.Map{"user_id": userID})

	// server push only; reads just detect the close
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			h.hub.unregister(connID, cl)
			h.hub.Broadcast(connID, "presence_leave", echo.Map{"user_id": userID})
			return nil
		}
	}
}
