package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/user"
)

type memStore struct {
	reports []Report
}

func (s *memStore) Create(_ context.Context, r *Report) error {
	s.reports = append(s.reports, *r)
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (Report, error) {
	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return Report{}, apperr.NotFound("report %s not found", id)
}

func (s *memStore) List(_ context.Context, unresolvedOnly bool) ([]Report, error) {
	out := []Report{}
	for _, r := range s.reports {
		if !unresolvedOnly || !r.IsResolved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Resolve(_ context.Context, id, adminID string, at time.Time) error {
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports[i].IsResolved = true
			s.reports[i].ResolvedBy = &adminID
			s.reports[i].ResolvedAt = &at
		}
	}
	return nil
}

type users map[string]bool

func (u users) Get(_ context.Context, id string) (user.User, error) {
	if !u[id] {
		return user.User{}, apperr.NotFound("user %s not found", id)
	}
	return user.User{ID: id}, nil
}

var (
	reporter = uuid.NewString()
	reported = uuid.NewString()
)

func TestCreateAndResolve(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, users{reporter: true, reported: true})
	ctx := context.Background()

	r, err := svc.Create(ctx, reporter, CreateRequest{ReportedUserID: reported, Reason: " spam "})
	require.NoError(t, err)
	assert.Equal(t, "spam", r.Reason)

	open, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	resolved, err := svc.Resolve(ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "admin", *resolved.ResolvedBy)

	_, err = svc.Resolve(ctx, r.ID, "admin")
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

	open, err = svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&memStore{}, users{reporter: true, reported: true})
	ctx := context.Background()

	_, err := svc.Create(ctx, reporter, CreateRequest{ReportedUserID: reporter, Reason: "spam"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Create(ctx, reporter, CreateRequest{ReportedUserID: reported})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Create(ctx, reporter, CreateRequest{ReportedUserID: "not-a-uuid", Reason: "spam"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Create(ctx, reporter, CreateRequest{ReportedUserID: uuid.NewString(), Reason: "spam"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
