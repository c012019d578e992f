package report

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

// POST /reports
func (h *Handler) Create(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid payload"))
	}
	r, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// GET /admin/reports?unresolved=true
func (h *Handler) AdminList(c echo.Context) error {
	reports, err := h.svc.List(c.Request().Context(), c.QueryParam("unresolved") == "true")
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}

// POST /admin/reports/:id/resolve
func (h *Handler) AdminResolve(c echo.Context) error {
	adminID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := apperr.RequireID("report id", id); err != nil {
		return apperr.JSON(c, err)
	}
	r, err := h.svc.Resolve(c.Request().Context(), id, adminID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "resolved", "report": r})
}
