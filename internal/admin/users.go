package admin

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type AdminUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /admin/users
func (h *Handler) ListUsers(c echo.Context) error {
	rows, err := h.q.Query(c.Request().Context(),
		`SELECT id::text, name, email, role, is_active, created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "could not fetch users"))
	}
	defer rows.Close()

	users := []AdminUser{}
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return apperr.JSON(c, apperr.Wrap(err, "failed to read user record"))
		}
		users = append(users, u)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// POST /admin/users/:id/suspend
func (h *Handler) SuspendUser(c echo.Context) error {
	return h.setActive(c, false)
}

// POST /admin/users/:id/activate
func (h *Handler) ActivateUser(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *Handler) setActive(c echo.Context, active bool) error {
	userID := c.Param("id")
	if err := apperr.RequireID("user id", userID); err != nil {
		return apperr.JSON(c, err)
	}
	ct, err := h.q.Exec(c.Request().Context(),
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, userID, active)
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "failed to update user"))
	}
	if ct.RowsAffected() == 0 {
		return apperr.JSON(c, apperr.NotFound("user %s not found", userID))
	}
	msg := "user suspended"
	if active {
		msg = "user activated"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "user_id": userID})
}
