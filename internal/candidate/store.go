package candidate

import (
	"context"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type Store interface {
	// Candidates returns every plant passing f in a fresh random order.
	Candidates(ctx context.Context, f Filter) ([]plant.Plant, error)
}

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) Candidates(ctx context.Context, f Filter) ([]plant.Plant, error) {
	where, args := f.SQL(1)
	rows, err := s.q.Query(ctx, `
        SELECT `+plant.Columns+`
        FROM plants p
        JOIN users u ON u.id = p.user_id
        WHERE `+where+`
        ORDER BY random()`, args...)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to query candidate plants")
	}
	plants, err := plant.ScanRows(rows)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to read candidate plants")
	}
	return plants, nil
}
