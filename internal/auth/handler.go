package auth

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/middleware"
)

type Handler struct {
	q               db.Querier
	secret          string
	bootstrapSecret string
}

func NewHandler(q db.Querier, secret, bootstrapSecret string) *Handler {
	return &Handler{q: q, secret: secret, bootstrapSecret: bootstrapSecret}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (r SignupRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperr.Validation("a valid email is required")
	}
	if len(r.Password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}
	return nil
}

// POST /auth/signup
func (h *Handler) Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request"))
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.validate(); err != nil {
		return apperr.JSON(c, err)
	}

	userID, err := h.createUser(c.Request().Context(), *req)
	if err != nil {
		return apperr.JSON(c, err)
	}

	signed, err := IssueToken(h.secret, userID, middleware.RoleUser)
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "token generation failed"))
	}
	return c.JSON(http.StatusCreated, TokenResponse{Token: signed, UserID: userID})
}

func (h *Handler) createUser(ctx context.Context, req SignupRequest) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(err, "failed to hash password")
	}

	userID := uuid.New().String()
	_, err = h.q.Exec(ctx, `
        INSERT INTO users (id, name, email, password, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, strings.TrimSpace(req.Name), req.Email, string(hashed), middleware.RoleUser, time.Now().UTC())
	if db.IsUniqueViolation(err) {
		return "", apperr.Conflict("email already registered")
	}
	if err != nil {
		return "", apperr.Wrap(err, "failed to create user")
	}
	return userID, nil
}
