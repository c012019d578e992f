package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/middleware"
)

type BootstrapAdminRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// POST /auth/bootstrap-admin promotes a user when ADMIN_BOOTSTRAP_SECRET is
// configured and matches.
func (h *Handler) BootstrapAdmin(c echo.Context) error {
	req := new(BootstrapAdminRequest)
	if err := c.Bind(req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request"))
	}
	if h.bootstrapSecret == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "bootstrap disabled"})
	}
	if req.Secret != h.bootstrapSecret {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid secret"})
	}
	if req.Email == "" {
		return apperr.JSON(c, apperr.Validation("email required"))
	}

	ct, err := h.q.Exec(c.Request().Context(), `UPDATE users SET role = $1 WHERE email = $2`, middleware.RoleAdmin, req.Email)
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "failed to promote user"))
	}
	if ct.RowsAffected() == 0 {
		return apperr.JSON(c, apperr.NotFound("user not found"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user promoted to admin", "email": req.Email})
}
