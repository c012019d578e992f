package match

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/db/dbtest"
)

func TestPGCreateDuplicateMatchIsConflict(t *testing.T) {
	pool := dbtest.Pool(t)
	store := NewPGStore(pool)
	ctx := context.Background()

	alice := dbtest.User(t, pool, nil)
	bob := dbtest.User(t, pool, nil)
	a := dbtest.InsertPlant(t, pool, alice, dbtest.Plant{})
	b := dbtest.InsertPlant(t, pool, bob, dbtest.Plant{})
	conn := dbtest.Connection(t, pool, alice, bob)

	m := &connection.Match{ID: uuid.NewString(), PlantID1: a, PlantID2: b, ConnectionID: conn, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Create(ctx, m))

	for _, pair := range [][2]string{{a, b}, {b, a}} {
		dup := &connection.Match{ID: uuid.NewString(), PlantID1: pair[0], PlantID2: pair[1], ConnectionID: conn, CreatedAt: time.Now().UTC()}
		err := store.Create(ctx, dup)
		assert.True(t, apperr.Is(err, apperr.KindConflict), "%v: got %v", pair, err)
	}

	found, err := store.FindByPlants(ctx, b, a)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, m.ID, found.ID)
}
