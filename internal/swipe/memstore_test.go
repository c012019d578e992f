package swipe

import (
	"context"
	"sync"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type pairKey struct{ swiper, swiped string }

// memStore enforces the ordered-pair uniqueness the way the database does.
type memStore struct {
	mu     sync.Mutex
	swipes map[pairKey]Swipe
	plants map[string]plant.Plant
	calls  int
}

func newMemStore(plants ...plant.Plant) *memStore {
	s := &memStore{swipes: map[pairKey]Swipe{}, plants: map[string]plant.Plant{}}
	for _, p := range plants {
		s.plants[p.ID] = p
	}
	return s
}

func (s *memStore) Insert(_ context.Context, sw *Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{sw.SwiperPlantID, sw.SwipedPlantID}
	if _, ok := s.swipes[k]; ok {
		return apperr.Conflict("duplicate swipe")
	}
	s.swipes[k] = *sw
	return nil
}

func (s *memStore) Find(_ context.Context, swiper, swiped string) (*Swipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.swipes[pairKey{swiper, swiped}]
	if !ok {
		return nil, nil
	}
	return &sw, nil
}

func (s *memStore) JudgmentCounts(_ context.Context, userPlantIDs, candidateIDs []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := map[string]int{}
	for _, u := range userPlantIDs {
		for _, c := range candidateIDs {
			if _, ok := s.swipes[pairKey{u, c}]; ok {
				out[c]++
			}
		}
	}
	return out, nil
}

func (s *memStore) LikedPlants(_ context.Context, liker, owner string) ([]plant.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []plant.Plant
	for k, sw := range s.swipes {
		swiper, target := s.plants[k.swiper], s.plants[k.swiped]
		if sw.IsLike && swiper.UserID == liker && target.UserID == owner && !target.IsTraded && !seen[target.ID] {
			seen[target.ID] = true
			out = append(out, target)
		}
	}
	return out, nil
}
