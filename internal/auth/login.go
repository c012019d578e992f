package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/login
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request"))
	}

	var (
		userID   string
		password string
		role     string
		isActive bool
	)
	err := h.q.QueryRow(c.Request().Context(), `
        SELECT id::text, password, role, is_active FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(req.Email)),
	).Scan(&userID, &password, &role, &isActive)
	if db.IsNoRows(err) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "failed to look up user"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !isActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account suspended"})
	}

	signed, err := IssueToken(h.secret, userID, role)
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "token generation failed"))
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: signed, UserID: userID})
}
