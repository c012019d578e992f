package candidate

import (
	"context"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/plant"
	"github.com/sudo-init-do/cuttr/internal/user"
)

type UserSource interface {
	Get(ctx context.Context, id string) (user.User, error)
	GetPreferences(ctx context.Context, userID string) (*user.Preferences, error)
}

type OwnedPlants interface {
	ListByOwner(ctx context.Context, userID string, tradableOnly bool) ([]plant.Plant, error)
}

type JudgmentCounter interface {
	BulkJudgmentCounts(ctx context.Context, userPlantIDs, candidatePlantIDs []string) (map[string]int, error)
}

type Selector struct {
	users           UserSource
	owned           OwnedPlants
	judgments       JudgmentCounter
	store           Store
	defaultRadiusKm int
}

func NewSelector(users UserSource, owned OwnedPlants, judgments JudgmentCounter, store Store, defaultRadiusKm int) *Selector {
	return &Selector{
		users:           users,
		owned:           owned,
		judgments:       judgments,
		store:           store,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// SelectCandidates returns up to maxCount plants for userID to swipe on, in
// random order. A plant is dropped only once every one of the user's
// untraded plants has judged it.
func (s *Selector) SelectCandidates(ctx context.Context, userID string, maxCount int) ([]plant.Plant, error) {
	if maxCount <= 0 {
		return nil, apperr.Validation("max count must be positive")
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, apperr.Validation("user preferences not found")
	}
	if u.Location == nil {
		return nil, apperr.Validation("user location not set")
	}

	candidates, err := s.store.Candidates(ctx, NewFilter(userID, *u.Location, *prefs, s.defaultRadiusKm))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []plant.Plant{}, nil
	}

	mine, err := s.owned.ListByOwner(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	mineIDs := make([]string, len(mine))
	for i, p := range mine {
		mineIDs[i] = p.ID
	}
	candidateIDs := make([]string, len(candidates))
	for i, p := range candidates {
		candidateIDs[i] = p.ID
	}
	counts, err := s.judgments.BulkJudgmentCounts(ctx, mineIDs, candidateIDs)
	if err != nil {
		return nil, err
	}

	out := make([]plant.Plant, 0, maxCount)
	for _, p := range candidates {
		if n, judged := counts[p.ID]; judged && n >= len(mineIDs) {
			continue
		}
		out = append(out, p)
		if len(out) >= maxCount {
			break
		}
	}
	return out, nil
}
