package swipe

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

func TestRecordSwipeRejectsDuplicatePair(t *testing.T) {
	store := newMemStore()
	l := NewLedger(store)
	ctx := context.Background()

	_, err := l.RecordSwipe(ctx, "a", "b", true)
	require.NoError(t, err)

	_, err = l.RecordSwipe(ctx, "a", "b", false)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Len(t, store.swipes, 1)
	assert.True(t, store.swipes[pairKey{"a", "b"}].IsLike, "history is not overwritten")

	// the reverse direction is a different ordered pair
	_, err = l.RecordSwipe(ctx, "b", "a", false)
	require.NoError(t, err)
}

func TestRecordSwipeConcurrentDuplicates(t *testing.T) {
	store := newMemStore()
	l := NewLedger(store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.RecordSwipe(context.Background(), "a", "b", true)
			if apperr.Is(err, apperr.KindConflict) {
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, store.swipes, 1)
	assert.Equal(t, 7, conflicts)
}

func TestRecordSwipeValidation(t *testing.T) {
	l := NewLedger(newMemStore())
	_, err := l.RecordSwipe(context.Background(), "a", "a", true)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = l.RecordSwipe(context.Background(), "", "a", true)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestHasJudged(t *testing.T) {
	l := NewLedger(newMemStore())
	ctx := context.Background()
	_, err := l.RecordSwipe(ctx, "a", "b", false)
	require.NoError(t, err)

	judged, err := l.HasJudged(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, judged)

	judged, err = l.HasJudged(ctx, "b", "a")
	require.NoError(t, err)
	assert.False(t, judged)
}

func TestBulkJudgmentCounts(t *testing.T) {
	store := newMemStore()
	l := NewLedger(store)
	ctx := context.Background()

	for _, mine := range []string{"m1", "m2", "m3"} {
		_, err := l.RecordSwipe(ctx, mine, "x", mine == "m1")
		require.NoError(t, err)
	}
	_, err := l.RecordSwipe(ctx, "m1", "y", true)
	require.NoError(t, err)

	counts, err := l.BulkJudgmentCounts(ctx, []string{"m1", "m2", "m3"}, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"x": 3, "y": 1}, counts)
	assert.Equal(t, 1, store.calls)

	counts, err = l.BulkJudgmentCounts(ctx, nil, []string{"x"})
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.Equal(t, 1, store.calls, "empty input skips the store")
}

func TestLikedPlantsBetweenDeduplicates(t *testing.T) {
	store := newMemStore(
		plant.Plant{ID: "a1", UserID: "alice"},
		plant.Plant{ID: "a2", UserID: "alice"},
		plant.Plant{ID: "b1", UserID: "bob"},
		plant.Plant{ID: "b2", UserID: "bob"},
		plant.Plant{ID: "b3", UserID: "bob", IsTraded: true},
	)
	l := NewLedger(store)
	ctx := context.Background()

	for _, s := range []struct {
		from, to string
		like     bool
	}{
		{"a1", "b1", true},
		{"a2", "b1", true},
		{"a1", "b2", false},
		{"a1", "b3", true},
	} {
		_, err := l.RecordSwipe(ctx, s.from, s.to, s.like)
		require.NoError(t, err)
	}

	liked, err := l.LikedPlantsBetween(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "b1", liked[0].ID)

	liked, err = l.LikedPlantsBetween(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Empty(t, liked)
}
