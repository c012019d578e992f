package messaging

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Handler struct {
	svc *Service
	hub *Hub
}

func NewHandler(svc *Service, hub *Hub) *Handler {
	return &Handler{svc: svc, hub: hub}
}

func connectionParam(c echo.Context) (string, error) {
	id := c.Param("id")
	return id, apperr.RequireID("connection id", id)
}

// POST /connections/:id/messages
func (h *Handler) Send(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID, err := connectionParam(c)
	if err != nil {
		return apperr.JSON(c, err)
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid payload"))
	}

	m, err := h.svc.Send(c.Request().Context(), connID, userID, body.Content)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// GET /connections/:id/messages?since=
func (h *Handler) List(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID, err := connectionParam(c)
	if err != nil {
		return apperr.JSON(c, err)
	}
	var since *time.Time
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperr.JSON(c, apperr.Validation("invalid since timestamp, use RFC3339"))
		}
		since = &t
	}

	msgs, err := h.svc.List(c.Request().Context(), connID, userID, since)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// GET /connections/:id/messages/unread
func (h *Handler) Unread(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID, err := connectionParam(c)
	if err != nil {
		return apperr.JSON(c, err)
	}
	n, err := h.svc.Unread(c.Request().Context(), connID, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

// POST /connections/:id/messages/:mid/read
func (h *Handler) MarkRead(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID, err := connectionParam(c)
	if err != nil {
		return apperr.JSON(c, err)
	}
	msgID := c.Param("mid")
	if err := apperr.RequireID("message id", msgID); err != nil {
		return apperr.JSON(c, err)
	}

	m, err := h.svc.MarkRead(c.Request().Context(), connID, msgID, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message_id": m.ID, "read_at": m.ReadAt})
}
