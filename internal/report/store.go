package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type Store interface {
	Create(ctx context.Context, r *Report) error
	Get(ctx context.Context, id string) (Report, error)
	List(ctx context.Context, unresolvedOnly bool) ([]Report, error)
	Resolve(ctx context.Context, id, adminID string, at time.Time) error
}

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

const reportColumns = `id::text, reporter_user_id::text, reported_user_id::text, reason, COALESCE(comments, ''),
    is_resolved, resolved_by::text, created_at, resolved_at`

func scanReport(row pgx.Row) (Report, error) {
	var r Report
	err := row.Scan(&r.ID, &r.ReporterUserID, &r.ReportedUserID, &r.Reason, &r.Comments,
		&r.IsResolved, &r.ResolvedBy, &r.CreatedAt, &r.ResolvedAt)
	return r, err
}

func (s *PGStore) Create(ctx context.Context, r *Report) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO reports (id, reporter_user_id, reported_user_id, reason, comments, created_at)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		r.ID, r.ReporterUserID, r.ReportedUserID, r.Reason, r.Comments, r.CreatedAt)
	return apperr.Wrap(err, "failed to create report")
}

func (s *PGStore) Get(ctx context.Context, id string) (Report, error) {
	r, err := scanReport(s.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return r, apperr.NotFound("report %s not found", id)
	}
	return r, apperr.Wrap(err, "failed to fetch report")
}

func (s *PGStore) List(ctx context.Context, unresolvedOnly bool) ([]Report, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+reportColumns+` FROM reports
        WHERE NOT $1 OR is_resolved = FALSE
        ORDER BY created_at DESC`, unresolvedOnly)
	if err != nil {
		return nil, apperr.Wrap(err, "could not fetch reports")
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to read report record")
		}
		out = append(out, r)
	}
	return out, apperr.Wrap(rows.Err(), "failed to read reports")
}

func (s *PGStore) Resolve(ctx context.Context, id, adminID string, at time.Time) error {
	tag, err := s.q.Exec(ctx, `
        UPDATE reports SET is_resolved = TRUE, resolved_by = $2, resolved_at = $3
        WHERE id = $1 AND is_resolved = FALSE`, id, adminID, at)
	if err != nil {
		return apperr.Wrap(err, "failed to resolve report")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Concurrency("report %s was resolved concurrently", id)
	}
	return nil
}
