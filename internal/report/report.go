package report

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/user"
)

type Report struct {
	ID             string     `json:"report_id"`
	ReporterUserID string     `json:"reporter_user_id"`
	ReportedUserID string     `json:"reported_user_id"`
	Reason         string     `json:"reason"`
	Comments       string     `json:"comments,omitempty"`
	IsResolved     bool       `json:"is_resolved"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

type CreateRequest struct {
	ReportedUserID string `json:"reported_user_id"`
	Reason         string `json:"reason"`
	Comments       string `json:"comments"`
}

type UserLookup interface {
	Get(ctx context.Context, id string) (user.User, error)
}

type Service struct {
	store Store
	users UserLookup
	now   func() time.Time
}

func NewService(store Store, users UserLookup) *Service {
	return &Service{store: store, users: users, now: time.Now}
}

func (s *Service) Create(ctx context.Context, reporterID string, req CreateRequest) (Report, error) {
	if err := apperr.RequireID("reported_user_id", req.ReportedUserID); err != nil {
		return Report{}, err
	}
	if req.ReportedUserID == reporterID {
		return Report{}, apperr.Validation("you cannot report yourself")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return Report{}, apperr.Validation("reason is required")
	}
	if _, err := s.users.Get(ctx, req.ReportedUserID); err != nil {
		return Report{}, err
	}

	r := Report{
		ID:             uuid.New().String(),
		ReporterUserID: reporterID,
		ReportedUserID: req.ReportedUserID,
		Reason:         reason,
		Comments:       strings.TrimSpace(req.Comments),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.Create(ctx, &r); err != nil {
		return Report{}, err
	}
	log.Printf("[report] %s reported %s", reporterID, r.ReportedUserID)
	return r, nil
}

func (s *Service) List(ctx context.Context, unresolvedOnly bool) ([]Report, error) {
	return s.store.List(ctx, unresolvedOnly)
}

// Resolve closes a report once.
func (s *Service) Resolve(ctx context.Context, reportID, adminID string) (Report, error) {
	r, err := s.store.Get(ctx, reportID)
	if err != nil {
		return Report{}, err
	}
	if r.IsResolved {
		return Report{}, apperr.BusinessRule("report %s is already resolved", reportID)
	}
	at := s.now().UTC()
	if err := s.store.Resolve(ctx, reportID, adminID, at); err != nil {
		return Report{}, err
	}
	r.IsResolved, r.ResolvedBy, r.ResolvedAt = true, &adminID, &at
	return r, nil
}
