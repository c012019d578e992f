package swipe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db/dbtest"
)

func TestPGInsertDuplicateIsConflict(t *testing.T) {
	pool := dbtest.Pool(t)
	store := NewPGStore(pool)
	ctx := context.Background()

	a := dbtest.InsertPlant(t, pool, dbtest.User(t, pool, nil), dbtest.Plant{})
	b := dbtest.InsertPlant(t, pool, dbtest.User(t, pool, nil), dbtest.Plant{})

	first := &Swipe{ID: uuid.NewString(), SwiperPlantID: a, SwipedPlantID: b, IsLike: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Insert(ctx, first))

	again := &Swipe{ID: uuid.NewString(), SwiperPlantID: a, SwipedPlantID: b, IsLike: false, CreatedAt: time.Now().UTC()}
	err := store.Insert(ctx, again)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	reverse := &Swipe{ID: uuid.NewString(), SwiperPlantID: b, SwipedPlantID: a, IsLike: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Insert(ctx, reverse), "the opposite direction is a separate swipe")

	got, err := store.Find(ctx, a, b)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsLike, "the first judgment stands")
}
