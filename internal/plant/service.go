package plant

import (
	"context"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

// Service is the Plant Catalog.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (Plant, error) {
	p, err := req.toPlant(ownerID)
	if err != nil {
		return Plant{}, err
	}
	ok, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return Plant{}, err
	}
	if !ok {
		return Plant{}, apperr.NotFound("user %s not found", ownerID)
	}
	p.ID = uuid.New().String()
	if err := s.store.Create(ctx, &p); err != nil {
		return Plant{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Plant, error) {
	return s.store.Get(ctx, id)
}

// ListTradable returns the owner's plants that are still available to trade.
func (s *Service) ListTradable(ctx context.Context, userID string) ([]Plant, error) {
	return s.store.ListByOwner(ctx, userID, true)
}

func (s *Service) ListByOwner(ctx context.Context, userID string) ([]Plant, error) {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user %s not found", userID)
	}
	return s.store.ListByOwner(ctx, userID, false)
}

// MarkTraded flags a plant as consumed by a trade. Only the owner may do so.
// Marking an already traded plant is a no-op.
func (s *Service) MarkTraded(ctx context.Context, plantID, userID string) error {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("user %s not found", userID)
	}
	p, err := s.owned(ctx, plantID, userID)
	if err != nil {
		return err
	}
	if p.IsTraded {
		return nil
	}
	return s.store.SetTraded(ctx, plantID)
}

// owned loads plantID and checks userID owns it.
func (s *Service) owned(ctx context.Context, plantID, userID string) (Plant, error) {
	p, err := s.store.Get(ctx, plantID)
	if err != nil {
		return Plant{}, err
	}
	if p.UserID != userID {
		return Plant{}, apperr.Forbidden("plant %s is not owned by the current user", plantID)
	}
	return p, nil
}

// Update replaces the owner's description of a plant. Traded plants are frozen.
func (s *Service) Update(ctx context.Context, plantID, userID string, req CreateRequest) (Plant, error) {
	current, err := s.owned(ctx, plantID, userID)
	if err != nil {
		return Plant{}, err
	}
	if current.IsTraded {
		return Plant{}, apperr.BusinessRule("plant %s has already been traded", plantID)
	}
	p, err := req.toPlant(userID)
	if err != nil {
		return Plant{}, err
	}
	p.ID, p.CreatedAt = current.ID, current.CreatedAt
	if err := s.store.Update(ctx, &p); err != nil {
		return Plant{}, err
	}
	return p, nil
}

// Delete removes a plant that has never been matched or offered in a trade.
// Plants already in a match or proposal stay so those records remain intact.
func (s *Service) Delete(ctx context.Context, plantID, userID string) error {
	if _, err := s.owned(ctx, plantID, userID); err != nil {
		return err
	}
	used, err := s.store.InUse(ctx, plantID)
	if err != nil {
		return err
	}
	if used {
		return apperr.BusinessRule("plant %s is part of a match or trade proposal and cannot be deleted", plantID)
	}
	return s.store.Delete(ctx, plantID)
}
