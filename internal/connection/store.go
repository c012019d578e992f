package connection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type Store interface {
	Get(ctx context.Context, id string) (Connection, error)
	// FindByUsers looks up the pair in either order; nil, nil when absent.
	FindByUsers(ctx context.Context, userA, userB string) (*Connection, error)
	// CreateOrGet inserts the pair unless it already exists and returns the
	// stored row together with whether this call created it.
	CreateOrGet(ctx context.Context, userA, userB string) (Connection, bool, error)
	ListForUser(ctx context.Context, userID string) ([]Summary, error)
	Matches(ctx context.Context, connectionID string) ([]Match, error)
	GetMatch(ctx context.Context, id string) (Match, error)
	// MatchesForUser lists the matches of every connection the user is in.
	MatchesForUser(ctx context.Context, userID string) ([]Match, error)
}

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

const connectionColumns = `id::text, user_id1::text, user_id2::text, is_active, created_at`

func (s *PGStore) Get(ctx context.Context, id string) (Connection, error) {
	var c Connection
	err := s.q.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id).
		Scan(&c.ID, &c.UserID1, &c.UserID2, &c.IsActive, &c.CreatedAt)
	if db.IsNoRows(err) {
		return c, apperr.NotFound("connection %s not found", id)
	}
	return c, apperr.Wrap(err, "failed to fetch connection")
}

func (s *PGStore) FindByUsers(ctx context.Context, userA, userB string) (*Connection, error) {
	var c Connection
	err := s.q.QueryRow(ctx, `
        SELECT `+connectionColumns+` FROM connections
        WHERE LEAST(user_id1, user_id2) = LEAST($1::uuid, $2::uuid)
          AND GREATEST(user_id1, user_id2) = GREATEST($1::uuid, $2::uuid)`, userA, userB).
		Scan(&c.ID, &c.UserID1, &c.UserID2, &c.IsActive, &c.CreatedAt)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch connection")
	}
	return &c, nil
}

func (s *PGStore) CreateOrGet(ctx context.Context, userA, userB string) (Connection, bool, error) {
	c := Connection{ID: uuid.New().String(), UserID1: userA, UserID2: userB, IsActive: true, CreatedAt: time.Now().UTC()}
	res, err := s.q.Exec(ctx, `
        INSERT INTO connections (id, user_id1, user_id2, is_active, created_at)
        VALUES ($1, $2, $3, TRUE, $4)
        ON CONFLICT ((LEAST(user_id1, user_id2)), (GREATEST(user_id1, user_id2))) DO NOTHING`,
		c.ID, c.UserID1, c.UserID2, c.CreatedAt)
	if err != nil {
		return Connection{}, false, apperr.Wrap(err, "failed to create connection")
	}
	if res.RowsAffected() == 1 {
		return c, true, nil
	}
	existing, err := s.FindByUsers(ctx, userA, userB)
	if err != nil {
		return Connection{}, false, err
	}
	if existing == nil {
		return Connection{}, false, apperr.Wrap(apperr.Conflict("connection vanished"), "failed to create connection")
	}
	return *existing, false, nil
}

func (s *PGStore) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := s.q.Query(ctx, `
        SELECT c.id::text, c.user_id1::text, c.user_id2::text, c.is_active, c.created_at,
            o.id::text, o.name, COALESCE(o.profile_picture_url, ''),
            (SELECT COUNT(*) FROM matches m WHERE m.connection_id = c.id)
        FROM connections c
        JOIN users o ON o.id = CASE WHEN c.user_id1 = $1 THEN c.user_id2 ELSE c.user_id1 END
        WHERE (c.user_id1 = $1 OR c.user_id2 = $1) AND c.is_active
        ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list connections")
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.UserID1, &sm.UserID2, &sm.IsActive, &sm.CreatedAt,
			&sm.OtherUserID, &sm.OtherUserName, &sm.OtherUserAvatar, &sm.MatchCount); err != nil {
			return nil, apperr.Wrap(err, "failed to parse connection")
		}
		out = append(out, sm)
	}
	return out, apperr.Wrap(rows.Err(), "failed to list connections")
}

const matchColumns = `m.id::text, m.plant_id1::text, m.plant_id2::text, m.connection_id::text, m.created_at`

func (s *PGStore) Matches(ctx context.Context, connectionID string) ([]Match, error) {
	return s.queryMatches(ctx, `
        SELECT `+matchColumns+` FROM matches m
        WHERE m.connection_id = $1 ORDER BY m.created_at`, connectionID)
}

func (s *PGStore) MatchesForUser(ctx context.Context, userID string) ([]Match, error) {
	return s.queryMatches(ctx, `
        SELECT `+matchColumns+` FROM matches m
        JOIN connections c ON c.id = m.connection_id
        WHERE c.user_id1 = $1 OR c.user_id2 = $1
        ORDER BY m.created_at DESC`, userID)
}

func (s *PGStore) GetMatch(ctx context.Context, id string) (Match, error) {
	var m Match
	err := s.q.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches m WHERE m.id = $1`, id).
		Scan(&m.ID, &m.PlantID1, &m.PlantID2, &m.ConnectionID, &m.CreatedAt)
	if db.IsNoRows(err) {
		return m, apperr.NotFound("match %s not found", id)
	}
	return m, apperr.Wrap(err, "failed to fetch match")
}

func (s *PGStore) queryMatches(ctx context.Context, sql string, args ...any) ([]Match, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list matches")
	}
	defer rows.Close()

	out := []Match{}
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.PlantID1, &m.PlantID2, &m.ConnectionID, &m.CreatedAt); err != nil {
			return nil, apperr.Wrap(err, "failed to parse match")
		}
		out = append(out, m)
	}
	return out, apperr.Wrap(rows.Err(), "failed to list matches")
}
