package connection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

// MemStore is an in-process Store. It backs tests in this and dependent
// packages and enforces the same unordered-pair uniqueness as Postgres.
type MemStore struct {
	mu      sync.Mutex
	conns   map[string]Connection
	matches map[string][]Match
}

func NewMemStore() *MemStore {
	return &MemStore{conns: map[string]Connection{}, matches: map[string][]Match{}}
}

func (s *MemStore) Put(c Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.ID] = c
}

func (s *MemStore) AddMatch(m Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ConnectionID] = append(s.matches[m.ConnectionID], m)
}

func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *MemStore) Get(_ context.Context, id string) (Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[id]
	if !ok {
		return Connection{}, apperr.NotFound("connection %s not found", id)
	}
	return c, nil
}

func (s *MemStore) FindByUsers(_ context.Context, a, b string) (*Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(a, b), nil
}

func (s *MemStore) find(a, b string) *Connection {
	for _, c := range s.conns {
		if (c.UserID1 == a && c.UserID2 == b) || (c.UserID1 == b && c.UserID2 == a) {
			c := c
			return &c
		}
	}
	return nil
}

func (s *MemStore) CreateOrGet(_ context.Context, a, b string) (Connection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.find(a, b); c != nil {
		return *c, false, nil
	}
	c := Connection{ID: uuid.New().String(), UserID1: a, UserID2: b, IsActive: true, CreatedAt: time.Now().UTC()}
	s.conns[c.ID] = c
	return c, true, nil
}

func (s *MemStore) ListForUser(_ context.Context, userID string) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Summary{}
	for _, c := range s.conns {
		if c.HasParticipant(userID) && c.IsActive {
			out = append(out, Summary{Connection: c, OtherUserID: c.Other(userID), MatchCount: len(s.matches[c.ID])})
		}
	}
	return out, nil
}

func (s *MemStore) Matches(_ context.Context, connectionID string) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Match{}, s.matches[connectionID]...), nil
}

func (s *MemStore) GetMatch(_ context.Context, id string) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ms := range s.matches {
		for _, m := range ms {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return Match{}, apperr.NotFound("match %s not found", id)
}

func (s *MemStore) MatchesForUser(_ context.Context, userID string) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Match{}
	for id, c := range s.conns {
		if c.HasParticipant(userID) {
			out = append(out, s.matches[id]...)
		}
	}
	return out, nil
}
