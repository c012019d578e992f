package trade

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type Store interface {
	Create(ctx context.Context, p *Proposal) error
	Get(ctx context.Context, id string) (Proposal, error)
	ListByConnection(ctx context.Context, connectionID string) ([]Proposal, error)
	// Update writes p when its stored version still equals p.Version and
	// bumps p.Version. A stale version fails with a Concurrency error.
	Update(ctx context.Context, p *Proposal) error
}

type PGStore struct {
	q db.Beginner
}

func NewPGStore(q db.Beginner) *PGStore {
	return &PGStore{q: q}
}

const proposalColumns = `id::text, connection_id::text, proposal_owner_user_id::text, status,
    owner_completion_confirmed, responder_completion_confirmed, version,
    created_at, accepted_at, declined_at, completed_at`

func scanProposal(row pgx.Row) (Proposal, error) {
	var p Proposal
	err := row.Scan(&p.ID, &p.ConnectionID, &p.OwnerUserID, &p.Status,
		&p.OwnerCompletionConfirmed, &p.ResponderCompletionConfirmed, &p.Version,
		&p.CreatedAt, &p.AcceptedAt, &p.DeclinedAt, &p.CompletedAt)
	return p, err
}

func (s *PGStore) Create(ctx context.Context, p *Proposal) error {
	tx, err := s.q.Begin(ctx)
	if err != nil {
		return apperr.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO trade_proposals (id, connection_id, proposal_owner_user_id, status, version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ConnectionID, p.OwnerUserID, p.Status, p.Version, p.CreatedAt)
	if err != nil {
		return apperr.Wrap(err, "failed to create proposal")
	}

	for side, ids := range map[int][]string{1: p.PlantsOfferedByUser1, 2: p.PlantsOfferedByUser2} {
		_, err = tx.Exec(ctx, `
            INSERT INTO trade_proposal_plants (proposal_id, plant_id, side)
            SELECT $1, unnest($2::uuid[]), $3`, p.ID, ids, side)
		if err != nil {
			return apperr.Wrap(err, "failed to attach proposal plants")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return apperr.Wrap(err, "failed to commit proposal")
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (Proposal, error) {
	p, err := scanProposal(s.q.QueryRow(ctx, `SELECT `+proposalColumns+` FROM trade_proposals WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return p, apperr.NotFound("trade proposal %s not found", id)
	}
	if err != nil {
		return p, apperr.Wrap(err, "failed to fetch proposal")
	}
	list := []Proposal{p}
	if err := s.attachPlants(ctx, list); err != nil {
		return p, err
	}
	return list[0], nil
}

func (s *PGStore) ListByConnection(ctx context.Context, connectionID string) ([]Proposal, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+proposalColumns+`
        FROM trade_proposals WHERE connection_id = $1
        ORDER BY created_at DESC`, connectionID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list proposals")
	}
	defer rows.Close()

	out := []Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to read proposal")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, "failed to read proposals")
	}
	if err := s.attachPlants(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachPlants fills both plant sets of every proposal with one query.
func (s *PGStore) attachPlants(ctx context.Context, proposals []Proposal) error {
	if len(proposals) == 0 {
		return nil
	}
	idx := make(map[string]int, len(proposals))
	ids := make([]string, len(proposals))
	for i := range proposals {
		idx[proposals[i].ID] = i
		ids[i] = proposals[i].ID
		proposals[i].PlantsOfferedByUser1 = []string{}
		proposals[i].PlantsOfferedByUser2 = []string{}
	}

	rows, err := s.q.Query(ctx, `
        SELECT proposal_id::text, plant_id::text, side
        FROM trade_proposal_plants WHERE proposal_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return apperr.Wrap(err, "failed to load proposal plants")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			proposalID, plantID string
			side                int
		)
		if err := rows.Scan(&proposalID, &plantID, &side); err != nil {
			return apperr.Wrap(err, "failed to read proposal plant")
		}
		p := &proposals[idx[proposalID]]
		if side == 1 {
			p.PlantsOfferedByUser1 = append(p.PlantsOfferedByUser1, plantID)
		} else {
			p.PlantsOfferedByUser2 = append(p.PlantsOfferedByUser2, plantID)
		}
	}
	return apperr.Wrap(rows.Err(), "failed to read proposal plants")
}

func (s *PGStore) Update(ctx context.Context, p *Proposal) error {
	tag, err := s.q.Exec(ctx, `
        UPDATE trade_proposals
        SET status = $3, owner_completion_confirmed = $4, responder_completion_confirmed = $5,
            accepted_at = $6, declined_at = $7, completed_at = $8, version = version + 1
        WHERE id = $1 AND version = $2`,
		p.ID, p.Version, p.Status, p.OwnerCompletionConfirmed, p.ResponderCompletionConfirmed,
		p.AcceptedAt, p.DeclinedAt, p.CompletedAt)
	if err != nil {
		return apperr.Wrap(err, "failed to update proposal")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Concurrency("trade proposal %s was modified concurrently", p.ID)
	}
	p.Version++
	return nil
}
