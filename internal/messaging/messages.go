package messaging

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/alerts"
	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/connection"
)

// MaxContentLength bounds a single message body.
const MaxContentLength = 2000

type Message struct {
	ID           string     `json:"id"`
	ConnectionID string     `json:"connection_id"`
	SenderID     string     `json:"sender_id"`
	RecipientID  string     `json:"recipient_id"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	ReadAt       *time.Time `json:"read_at"`
}

type Connections interface {
	ForParticipant(ctx context.Context, connectionID, userID string) (connection.Connection, error)
}

type Notifier interface {
	Notify(ctx context.Context, n alerts.Notification)
}

type Broadcaster interface {
	Broadcast(connectionID, eventType string, data interface{})
}

// Service is the append-only message log of a connection.
type Service struct {
	store       Store
	connections Connections
	notifier    Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

func NewService(store Store, connections Connections, notifier Notifier, broadcaster Broadcaster) *Service {
	return &Service{
		store:       store,
		connections: connections,
		notifier:    notifier,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

func (s *Service) Send(ctx context.Context, connectionID, senderID, content string) (Message, error) {
	conn, err := s.connections.ForParticipant(ctx, connectionID, senderID)
	if err != nil {
		return Message{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, apperr.Validation("message content is required")
	}
	if len(content) > MaxContentLength {
		return Message{}, apperr.Validation("message content exceeds %d characters", MaxContentLength)
	}

	m := Message{
		ID:           uuid.New().String(),
		ConnectionID: conn.ID,
		SenderID:     senderID,
		RecipientID:  conn.Other(senderID),
		Content:      content,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, &m); err != nil {
		return Message{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(conn.ID, "message_new", m)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, alerts.Notification{
			UserID:    m.RecipientID,
			Type:      alerts.TypeMessageNew,
			Title:     "New Message",
			Body:      preview(content),
			Reference: conn.ID,
			Data:      map[string]string{"connection_id": conn.ID, "message_id": m.ID},
		})
	}
	return m, nil
}

// List returns the conversation oldest first, optionally only messages
// created after since.
func (s *Service) List(ctx context.Context, connectionID, userID string, since *time.Time) ([]Message, error) {
	if _, err := s.connections.ForParticipant(ctx, connectionID, userID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, connectionID, since)
}

func (s *Service) Unread(ctx context.Context, connectionID, userID string) (int64, error) {
	if _, err := s.connections.ForParticipant(ctx, connectionID, userID); err != nil {
		return 0, err
	}
	return s.store.UnreadCount(ctx, connectionID, userID)
}

// MarkRead stamps read_at once; only the recipient may do it.
func (s *Service) MarkRead(ctx context.Context, connectionID, messageID, userID string) (Message, error) {
	if _, err := s.connections.ForParticipant(ctx, connectionID, userID); err != nil {
		return Message{}, err
	}
	m, err := s.store.Get(ctx, messageID)
	if err != nil {
		return Message{}, err
	}
	if m.ConnectionID != connectionID {
		return Message{}, apperr.NotFound("message %s not found in connection %s", messageID, connectionID)
	}
	if m.RecipientID != userID {
		return Message{}, apperr.Forbidden("only the recipient can mark a message read")
	}
	if m.ReadAt != nil {
		return m, nil
	}

	at := s.now().UTC()
	if err := s.store.MarkRead(ctx, messageID, at); err != nil {
		return Message{}, err
	}
	m.ReadAt = &at
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(connectionID, "message_read", map[string]interface{}{
			"message_id": m.ID,
			"user_id":    userID,
			"read_at":    at,
		})
	}
	log.Printf("[messaging] message %s read by %s", m.ID, userID)
	return m, nil
}

func preview(s string) string {
	const n = 120
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
