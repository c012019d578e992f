package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_swipes_pair"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert swipe: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("get plant: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("boom")))
}

type recordingQuerier struct {
	Querier
	statements []string
	failOn     string
}

func (r *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("permission denied")
	}
	return pgconn.CommandTag{}, nil
}

func TestEnsureSchemaCreatesUniquenessConstraints(t *testing.T) {
	q := &recordingQuerier{}
	require.NoError(t, EnsureSchema(context.Background(), q))

	all := fmt.Sprint(q.statements)
	assert.Contains(t, all, "UNIQUE (swiper_plant_id, swiped_plant_id)")
	assert.Contains(t, all, "uq_matches_pair")
	assert.Contains(t, all, "uq_connections_pair")
	assert.Contains(t, all, "version INTEGER")
	assert.Len(t, q.statements, 11)
}

func TestEnsureSchemaFailsOnRequiredTables(t *testing.T) {
	for _, table := range []string{"swipes", "connections", "matches", "trade_proposals"} {
		q := &recordingQuerier{failOn: "CREATE TABLE IF NOT EXISTS " + table + " "}
		err := EnsureSchema(context.Background(), q)
		require.Error(t, err, table)
		assert.Contains(t, err.Error(), table)
	}

	q := &recordingQuerier{failOn: "CREATE TABLE IF NOT EXISTS notifications "}
	require.NoError(t, EnsureSchema(context.Background(), q))
	assert.Len(t, q.statements, 11)
}
