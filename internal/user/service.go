package user

import (
	"context"
	"log"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/geo"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.Get(ctx, id)
}

// Preferences returns the user's preferences or NotFound when none are saved.
func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	p, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	if p == nil {
		return Preferences{}, apperr.NotFound("preferences for user %s not found", userID)
	}
	return *p, nil
}

// SavePreferences creates the record or replaces it.
func (s *Service) SavePreferences(ctx context.Context, userID string, req PreferencesRequest) (Preferences, error) {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return Preferences{}, err
	}
	p, err := req.toPreferences(userID)
	if err != nil {
		return Preferences{}, err
	}
	if err := s.store.UpsertPreferences(ctx, p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func (s *Service) UpdateLocation(ctx context.Context, userID string, loc geo.Point) error {
	if !loc.Valid() {
		return apperr.Validation("latitude must be within [-90, 90] and longitude within [-180, 180]")
	}
	return s.store.UpdateLocation(ctx, userID, loc)
}

func (s *Service) UpdatePushToken(ctx context.Context, userID, token string) error {
	return s.store.UpdatePushToken(ctx, userID, token)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error {
	return s.store.UpdateProfile(ctx, userID, upd)
}

// SetProfilePicture stores the URL of an uploaded profile picture.
func (s *Service) SetProfilePicture(ctx context.Context, userID, url string) error {
	if url == "" {
		return apperr.Validation("profile picture url is required")
	}
	return s.store.UpdateProfile(ctx, userID, ProfileUpdate{ProfilePictureURL: url})
}

// DeleteAccount removes the user and everything they own. It is refused
// while one of their trades is accepted but not completed.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return err
	}
	busy, err := s.store.TradesInProgress(ctx, userID)
	if err != nil {
		return err
	}
	if busy {
		return apperr.BusinessRule("complete your accepted trades before deleting the account")
	}
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	log.Printf("[user] account %s deleted", userID)
	return nil
}

// PushToken resolves the Expo token the notifier delivers to.
func (s *Service) PushToken(ctx context.Context, userID string) (string, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.ExpoPushToken, nil
}
