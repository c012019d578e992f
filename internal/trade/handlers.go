package trade

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

type createRequest struct {
	UserPlantIDs  []string `json:"user_plant_ids"`
	OtherPlantIDs []string `json:"other_plant_ids"`
}

type statusRequest struct {
	NewStatus string `json:"new_status"`
}

// GET /connections/:id/proposals
func (h *Handler) List(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID := c.Param("id")
	if err := apperr.RequireID("connection id", connID); err != nil {
		return apperr.JSON(c, err)
	}
	proposals, err := h.svc.List(c.Request().Context(), connID, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"proposals": proposals})
}

// POST /connections/:id/proposals
func (h *Handler) Create(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID := c.Param("id")
	if err := apperr.RequireID("connection id", connID); err != nil {
		return apperr.JSON(c, err)
	}
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	for _, id := range append(append([]string{}, req.UserPlantIDs...), req.OtherPlantIDs...) {
		if err := apperr.RequireID("plant id", id); err != nil {
			return apperr.JSON(c, err)
		}
	}

	p, err := h.svc.CreateProposal(c.Request().Context(), connID, userID, req.UserPlantIDs, req.OtherPlantIDs)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// PUT /connections/:id/proposals/:pid/status
func (h *Handler) UpdateStatus(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID, proposalID := c.Param("id"), c.Param("pid")
	if err := apperr.RequireID("connection id", connID); err != nil {
		return apperr.JSON(c, err)
	}
	if err := apperr.RequireID("proposal id", proposalID); err != nil {
		return apperr.JSON(c, err)
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return apperr.JSON(c, apperr.Validation("invalid request body"))
	}
	to, err := ParseStatus(req.NewStatus)
	if err != nil {
		return apperr.JSON(c, err)
	}

	p, err := h.svc.UpdateStatus(c.Request().Context(), connID, proposalID, userID, to)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// POST /connections/:id/proposals/:pid/confirm
func (h *Handler) Confirm(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	connID, proposalID := c.Param("id"), c.Param("pid")
	if err := apperr.RequireID("connection id", connID); err != nil {
		return apperr.JSON(c, err)
	}
	if err := apperr.RequireID("proposal id", proposalID); err != nil {
		return apperr.JSON(c, err)
	}

	p, err := h.svc.ConfirmCompletion(c.Request().Context(), connID, proposalID, userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
