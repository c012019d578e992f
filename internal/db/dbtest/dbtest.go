// Package dbtest opens throwaway Postgres schemas for store tests. Tests that
// use it are skipped unless CUTTR_TEST_DATABASE_URL points at a database.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/geo"
)

const EnvURL = "CUTTR_TEST_DATABASE_URL"

// Pool returns a pool whose search_path is a fresh schema holding the full
// service schema. The schema is dropped when the test ends.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set", EnvURL)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, err := admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		if err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	require.NoError(t, db.EnsureSchema(ctx, pool))
	return pool
}

// User inserts a user and returns its id. A nil loc leaves the location unset.
func User(t *testing.T, q db.Querier, loc *geo.Point) string {
	t.Helper()
	id := uuid.NewString()
	var lat, lon *float64
	if loc != nil {
		lat, lon = &loc.Lat, &loc.Lon
	}
	_, err := q.Exec(context.Background(), `
        INSERT INTO users (id, name, email, password, location_lat, location_lon)
        VALUES ($1, $2, $3, 'x', $4, $5)`,
		id, "user-"+id[:8], id+"@example.com", lat, lon)
	require.NoError(t, err)
	return id
}

// Plant is the subset of plant columns the store tests set.
type Plant struct {
	Stage    string
	Size     string
	Light    string
	Extras   []string
	IsTraded bool
}

// InsertPlant creates a plant owned by userID and returns its id.
func InsertPlant(t *testing.T, q db.Querier, userID string, p Plant) string {
	t.Helper()
	if p.Stage == "" {
		p.Stage = "Cutting"
	}
	if p.Extras == nil {
		p.Extras = []string{}
	}
	id := uuid.NewString()
	_, err := q.Exec(context.Background(), `
        INSERT INTO plants (id, user_id, species_name, plant_stage, size, light_requirement, extras, is_traded)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
		id, userID, fmt.Sprintf("plant-%s", id[:8]), p.Stage, p.Size, p.Light, p.Extras, p.IsTraded)
	require.NoError(t, err)
	return id
}

// Connection inserts a connection between two users and returns its id.
func Connection(t *testing.T, q db.Querier, userA, userB string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := q.Exec(context.Background(),
		`INSERT INTO connections (id, user_id1, user_id2) VALUES ($1, $2, $3)`, id, userA, userB)
	require.NoError(t, err)
	return id
}
