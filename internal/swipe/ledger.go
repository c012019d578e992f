package swipe

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

// Swipe is a one-way judgment from one plant on another. Swipes are never
// updated or deleted.
type Swipe struct {
	ID            string    `json:"swipe_id"`
	SwiperPlantID string    `json:"swiper_plant_id"`
	SwipedPlantID string    `json:"swiped_plant_id"`
	IsLike        bool      `json:"is_like"`
	CreatedAt     time.Time `json:"created_at"`
}

type Store interface {
	// Insert fails with a Conflict error when the ordered pair already exists.
	Insert(ctx context.Context, s *Swipe) error
	// Find returns nil, nil when no swipe exists for the ordered pair.
	Find(ctx context.Context, swiperPlantID, swipedPlantID string) (*Swipe, error)
	JudgmentCounts(ctx context.Context, userPlantIDs, candidatePlantIDs []string) (map[string]int, error)
	LikedPlants(ctx context.Context, likerUserID, ownerUserID string) ([]plant.Plant, error)
}

// Ledger records swipes and answers judgment queries.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// RecordSwipe stores a judgment. A repeated ordered pair is rejected with a
// Conflict error even when isLike differs, so history is never rewritten.
func (l *Ledger) RecordSwipe(ctx context.Context, swiperPlantID, swipedPlantID string, isLike bool) (Swipe, error) {
	if swiperPlantID == "" || swipedPlantID == "" {
		return Swipe{}, apperr.Validation("swiper and swiped plant ids are required")
	}
	if swiperPlantID == swipedPlantID {
		return Swipe{}, apperr.Validation("a plant cannot swipe on itself")
	}
	s := Swipe{
		ID:            uuid.New().String(),
		SwiperPlantID: swiperPlantID,
		SwipedPlantID: swipedPlantID,
		IsLike:        isLike,
		CreatedAt:     l.now().UTC(),
	}
	if err := l.store.Insert(ctx, &s); err != nil {
		return Swipe{}, err
	}
	return s, nil
}

func (l *Ledger) HasJudged(ctx context.Context, swiperPlantID, swipedPlantID string) (bool, error) {
	s, err := l.store.Find(ctx, swiperPlantID, swipedPlantID)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Find returns the swipe for the ordered pair, or nil.
func (l *Ledger) Find(ctx context.Context, swiperPlantID, swipedPlantID string) (*Swipe, error) {
	return l.store.Find(ctx, swiperPlantID, swipedPlantID)
}

// BulkJudgmentCounts maps each candidate to the number of userPlantIDs that
// judged it, in a single store round trip. Candidates nobody judged are absent.
func (l *Ledger) BulkJudgmentCounts(ctx context.Context, userPlantIDs, candidatePlantIDs []string) (map[string]int, error) {
	if len(userPlantIDs) == 0 || len(candidatePlantIDs) == 0 {
		return map[string]int{}, nil
	}
	return l.store.JudgmentCounts(ctx, userPlantIDs, candidatePlantIDs)
}

// LikedPlantsBetween lists ownerUserID's untraded plants liked by any of
// likerUserID's plants, once per plant.
func (l *Ledger) LikedPlantsBetween(ctx context.Context, likerUserID, ownerUserID string) ([]plant.Plant, error) {
	return l.store.LikedPlants(ctx, likerUserID, ownerUserID)
}
