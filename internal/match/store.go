package match

import (
	"context"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) Create(ctx context.Context, m *connection.Match) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO matches (id, plant_id1, plant_id2, connection_id, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.PlantID1, m.PlantID2, m.ConnectionID, m.CreatedAt)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict("plants %s and %s are already matched", m.PlantID1, m.PlantID2)
	}
	return apperr.Wrap(err, "failed to create match")
}

func (s *PGStore) FindByPlants(ctx context.Context, plantA, plantB string) (*connection.Match, error) {
	var m connection.Match
	err := s.q.QueryRow(ctx, `
        SELECT id::text, plant_id1::text, plant_id2::text, connection_id::text, created_at
        FROM matches
        WHERE LEAST(plant_id1, plant_id2) = LEAST($1::uuid, $2::uuid)
          AND GREATEST(plant_id1, plant_id2) = GREATEST($1::uuid, $2::uuid)`, plantA, plantB,
	).Scan(&m.ID, &m.PlantID1, &m.PlantID2, &m.ConnectionID, &m.CreatedAt)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch match")
	}
	return &m, nil
}
