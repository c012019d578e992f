package connection

import (
	"context"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetOrCreate returns the connection between two users, creating it on first
// contact. created reports whether this call made it.
func (s *Service) GetOrCreate(ctx context.Context, userA, userB string) (conn Connection, created bool, err error) {
	if userA == userB {
		return Connection{}, false, apperr.Validation("a user cannot connect with themselves")
	}
	existing, err := s.store.FindByUsers(ctx, userA, userB)
	if err != nil {
		return Connection{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}
	return s.store.CreateOrGet(ctx, userA, userB)
}

// ForParticipant loads a connection and checks userID belongs to it.
func (s *Service) ForParticipant(ctx context.Context, connectionID, userID string) (Connection, error) {
	c, err := s.store.Get(ctx, connectionID)
	if err != nil {
		return Connection{}, err
	}
	if !c.HasParticipant(userID) {
		return Connection{}, apperr.Forbidden("user is not a participant of connection %s", connectionID)
	}
	return c, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	return s.store.ListForUser(ctx, userID)
}

func (s *Service) Matches(ctx context.Context, connectionID, userID string) ([]Match, error) {
	if _, err := s.ForParticipant(ctx, connectionID, userID); err != nil {
		return nil, err
	}
	return s.store.Matches(ctx, connectionID)
}

func (s *Service) MatchesForUser(ctx context.Context, userID string) ([]Match, error) {
	return s.store.MatchesForUser(ctx, userID)
}

// Match returns one match, visible only to the participants of its connection.
func (s *Service) Match(ctx context.Context, matchID, userID string) (Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return Match{}, err
	}
	if _, err := s.ForParticipant(ctx, m.ConnectionID, userID); err != nil {
		return Match{}, err
	}
	return m, nil
}
