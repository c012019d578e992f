package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/geo"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type memStore struct {
	users map[string]User
	prefs map[string]Preferences
	busy  map[string]bool
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{users: map[string]User{}, prefs: map[string]Preferences{}, busy: map[string]bool{}}
	for _, id := range ids {
		s.users[id] = User{ID: id, Name: id}
	}
	return s
}

func (s *memStore) Get(_ context.Context, id string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, apperr.NotFound("user %s not found", id)
	}
	return u, nil
}

func (s *memStore) GetPreferences(_ context.Context, userID string) (*Preferences, error) {
	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) UpsertPreferences(_ context.Context, p Preferences) error {
	s.prefs[p.UserID] = p
	return nil
}

func (s *memStore) UpdateLocation(_ context.Context, userID string, loc geo.Point) error {
	u, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("user %s not found", userID)
	}
	u.Location = &loc
	s.users[userID] = u
	return nil
}

func (s *memStore) UpdatePushToken(_ context.Context, userID, token string) error {
	u := s.users[userID]
	u.ExpoPushToken = token
	s.users[userID] = u
	return nil
}

func (s *memStore) UpdateProfile(_ context.Context, userID string, upd ProfileUpdate) error {
	u, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("user %s not found", userID)
	}
	if upd.ProfilePictureURL != "" {
		u.ProfilePictureURL = upd.ProfilePictureURL
	}
	s.users[userID] = u
	return nil
}

func (s *memStore) TradesInProgress(_ context.Context, userID string) (bool, error) {
	return s.busy[userID], nil
}

func (s *memStore) Delete(_ context.Context, userID string) error {
	if _, ok := s.users[userID]; !ok {
		return apperr.NotFound("user %s not found", userID)
	}
	delete(s.users, userID)
	delete(s.prefs, userID)
	return nil
}

func TestSavePreferencesCreatesThenUpdates(t *testing.T) {
	svc := NewService(newMemStore("u1"))
	ctx := context.Background()

	_, err := svc.Preferences(ctx, "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	p, err := svc.SavePreferences(ctx, "u1", PreferencesRequest{
		SearchRadiusKm: 25,
		Sizes:          []string{"SmallSize"},
		Extras:         []string{"Edible", "Fragrant"},
	})
	require.NoError(t, err)
	assert.Equal(t, []plant.Size{plant.SmallSize}, p.Sizes)

	_, err = svc.SavePreferences(ctx, "u1", PreferencesRequest{SearchRadiusKm: 5})
	require.NoError(t, err)

	got, err := svc.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.SearchRadiusKm)
	assert.Empty(t, got.Sizes)
}

func TestSavePreferencesValidation(t *testing.T) {
	svc := NewService(newMemStore("u1"))
	ctx := context.Background()

	_, err := svc.SavePreferences(ctx, "u1", PreferencesRequest{SearchRadiusKm: -1})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.SavePreferences(ctx, "u1", PreferencesRequest{LightRequirements: []string{"Moonlight"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.SavePreferences(ctx, "nobody", PreferencesRequest{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateLocation(t *testing.T) {
	store := newMemStore("u1")
	svc := NewService(store)
	ctx := context.Background()

	err := svc.UpdateLocation(ctx, "u1", geo.Point{Lat: 120, Lon: 0})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.UpdateLocation(ctx, "u1", geo.Point{Lat: 52.1, Lon: 5.1}))
	assert.Equal(t, 52.1, store.users["u1"].Location.Lat)
}

func TestPublicHidesPrivateFields(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.c", Location: &geo.Point{Lat: 1, Lon: 2}}.Public()
	assert.Empty(t, u.Email)
	assert.Nil(t, u.Location)
}

func TestDeleteAccount(t *testing.T) {
	store := newMemStore("u1", "trader")
	store.busy["trader"] = true
	svc := NewService(store)
	ctx := context.Background()

	err := svc.DeleteAccount(ctx, "trader")
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))
	assert.Contains(t, store.users, "trader")

	require.NoError(t, svc.DeleteAccount(ctx, "u1"))
	assert.NotContains(t, store.users, "u1")

	err = svc.DeleteAccount(ctx, "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPushToken(t *testing.T) {
	store := newMemStore("u1")
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.UpdatePushToken(ctx, "u1", "ExponentPushToken[x]"))
	token, err := svc.PushToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[x]", token)

	_, err = svc.PushToken(ctx, "ghost")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
