package trade

import (
	"context"
	"sync"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type memStore struct {
	mu        sync.Mutex
	proposals map[string]Proposal
}

func newMemStore() *memStore {
	return &memStore{proposals: map[string]Proposal{}}
}

func clone(p Proposal) Proposal {
	p.PlantsOfferedByUser1 = append([]string{}, p.PlantsOfferedByUser1...)
	p.PlantsOfferedByUser2 = append([]string{}, p.PlantsOfferedByUser2...)
	return p
}

func (s *memStore) Create(_ context.Context, p *Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[p.ID] = clone(*p)
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return Proposal{}, apperr.NotFound("trade proposal %s not found", id)
	}
	return clone(p), nil
}

func (s *memStore) ListByConnection(_ context.Context, connectionID string) ([]Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Proposal{}
	for _, p := range s.proposals {
		if p.ConnectionID == connectionID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, p *Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.proposals[p.ID]
	if !ok || cur.Version != p.Version {
		return apperr.Concurrency("trade proposal %s was modified concurrently", p.ID)
	}
	p.Version++
	s.proposals[p.ID] = clone(*p)
	return nil
}
