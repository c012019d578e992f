package connection

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GET /connections/me
func (h *Handler) ListMine(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	conns, err := h.svc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"connections": conns})
}

// GET /connections/:id
func (h *Handler) Get(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := apperr.RequireID("connection id", id); err != nil {
		return apperr.JSON(c, err)
	}
	conn, err := h.svc.ForParticipant(c.Request().Context(), id, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, conn)
}

// GET /connections/:id/matches
func (h *Handler) Matches(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := apperr.RequireID("connection id", id); err != nil {
		return apperr.JSON(c, err)
	}
	matches, err := h.svc.Matches(c.Request().Context(), id, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"matches": matches})
}

// GET /matches/me
func (h *Handler) MyMatches(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	matches, err := h.svc.MatchesForUser(c.Request().Context(), userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"matches": matches})
}

// GET /matches/:matchId
func (h *Handler) GetMatch(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	id := c.Param("matchId")
	if err := apperr.RequireID("match id", id); err != nil {
		return apperr.JSON(c, err)
	}
	m, err := h.svc.Match(c.Request().Context(), id, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
