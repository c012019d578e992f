package plant

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Handler struct {
	svc      *Service
	uploader PhotoUploader
}

// NewHandler builds the plant HTTP handlers. uploader may be nil when photo
// storage is not configured.
func NewHandler(svc *Service, uploader PhotoUploader) *Handler {
	return &Handler{svc: svc, uploader: uploader}
}

// POST /plants
func (h *Handler) Create(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	p, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /plants/me
func (h *Handler) ListMine(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	plants, err := h.svc.ListTradable(c.Request().Context(), userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plants": plants})
}

// GET /plants/:id
func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := apperr.RequireID("plant id", id); err != nil {
		return apperr.JSON(c, err)
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GET /users/:id/plants
func (h *Handler) ListByUser(c echo.Context) error {
	id := c.Param("id")
	if err := apperr.RequireID("user id", id); err != nil {
		return apperr.JSON(c, err)
	}
	plants, err := h.svc.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plants": plants})
}

// POST /plants/mark-as-traded/:plantId
func (h *Handler) MarkTraded(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	plantID := c.Param("plantId")
	if err := apperr.RequireID("plant id", plantID); err != nil {
		return apperr.JSON(c, err)
	}
	if err := h.svc.MarkTraded(c.Request().Context(), plantID, userID); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "plant marked as traded"})
}

// PUT /plants/me/:plantId
func (h *Handler) Update(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	plantID := c.Param("plantId")
	if err := apperr.RequireID("plant id", plantID); err != nil {
		return apperr.JSON(c, err)
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	p, err := h.svc.Update(c.Request().Context(), plantID, userID, req)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DELETE /plants/me/:plantId
func (h *Handler) Delete(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	plantID := c.Param("plantId")
	if err := apperr.RequireID("plant id", plantID); err != nil {
		return apperr.JSON(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), plantID, userID); err != nil {
		return apperr.JSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /plants/photo (multipart field "photo")
func (h *Handler) UploadPhoto(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "photo storage not configured"})
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no photo file provided"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read photo"})
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.uploader.Upload(ctx, userID, f)
	if err != nil {
		return apperr.JSON(c, apperr.Wrap(err, "failed to upload photo"))
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
