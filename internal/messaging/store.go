package messaging

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type Store interface {
	Insert(ctx context.Context, m *Message) error
	Get(ctx context.Context, id string) (Message, error)
	List(ctx context.Context, connectionID string, since *time.Time) ([]Message, error)
	UnreadCount(ctx context.Context, connectionID, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
}

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

const messageColumns = `id::text, connection_id::text, sender_id::text, recipient_id::text, content, created_at, read_at`

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.ConnectionID, &m.SenderID, &m.RecipientID, &m.Content, &m.CreatedAt, &m.ReadAt)
	return m, err
}

func (s *PGStore) Insert(ctx context.Context, m *Message) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO messages (id, connection_id, sender_id, recipient_id, content, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ConnectionID, m.SenderID, m.RecipientID, m.Content, m.CreatedAt)
	return apperr.Wrap(err, "failed to send message")
}

func (s *PGStore) Get(ctx context.Context, id string) (Message, error) {
	m, err := scanMessage(s.q.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return m, apperr.NotFound("message %s not found", id)
	}
	return m, apperr.Wrap(err, "failed to fetch message")
}

func (s *PGStore) List(ctx context.Context, connectionID string, since *time.Time) ([]Message, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if since != nil {
		rows, err = s.q.Query(ctx, `
            SELECT `+messageColumns+` FROM messages
            WHERE connection_id = $1 AND created_at > $2 ORDER BY created_at ASC`, connectionID, *since)
	} else {
		rows, err = s.q.Query(ctx, `
            SELECT `+messageColumns+` FROM messages
            WHERE connection_id = $1 ORDER BY created_at ASC`, connectionID)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list messages")
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to read message")
		}
		out = append(out, m)
	}
	return out, apperr.Wrap(rows.Err(), "failed to read messages")
}

func (s *PGStore) UnreadCount(ctx context.Context, connectionID, recipientID string) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `
        SELECT COUNT(*) FROM messages
        WHERE connection_id = $1 AND recipient_id = $2 AND read_at IS NULL`,
		connectionID, recipientID).Scan(&n)
	return n, apperr.Wrap(err, "failed to compute unread count")
}

func (s *PGStore) MarkRead(ctx context.Context, id string, at time.Time) error {
	_, err := s.q.Exec(ctx, `UPDATE messages SET read_at = $2 WHERE id = $1 AND read_at IS NULL`, id, at)
	return apperr.Wrap(err, "failed to mark read")
}
