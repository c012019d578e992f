package user

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/geo"
)

// PhotoUploader stores an image and returns its public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, key string, file interface{}) (string, error)
}

type Handler struct {
	svc      *Service
	uploader PhotoUploader
}

// NewHandler builds the user handlers. uploader may be nil when image
// storage is not configured.
func NewHandler(svc *Service, uploader PhotoUploader) *Handler {
	return &Handler{svc: svc, uploader: uploader}
}

// GET /users/me
func (h *Handler) Me(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// GET /users/:id/profile
func (h *Handler) PublicProfile(c echo.Context) error {
	id := c.Param("id")
	if err := apperr.RequireID("user id", id); err != nil {
		return apperr.JSON(c, err)
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, u.Public())
}

// PATCH /users/me
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var req ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), userID, req); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated successfully"})
}

// PUT /users/me/profile-picture (multipart field "photo")
func (h *Handler) UploadProfilePicture(c echo.Context) error {
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
		return apperr.JSON(c, apperr.Wrap(err, "failed to upload profile picture"))
	}
	if err := h.svc.SetProfilePicture(c.Request().Context(), userID, url); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile_picture_url": url})
}

// DELETE /users/me
func (h *Handler) DeleteAccount(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAccount(c.Request().Context(), userID); err != nil {
		return apperr.JSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PUT /users/me/location
func (h *Handler) UpdateLocation(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude are required"})
	}
	loc := geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	if err := h.svc.UpdateLocation(c.Request().Context(), userID, loc); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "location updated", "location": loc})
}

// PUT /users/me/push-token
func (h *Handler) UpdatePushToken(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var req struct {
		ExpoPushToken string `json:"expo_push_token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.svc.UpdatePushToken(c.Request().Context(), userID, req.ExpoPushToken); err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "push token updated"})
}

// GET /userpreferences
func (h *Handler) GetPreferences(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Preferences(c.Request().Context(), userID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// POST /userpreferences
func (h *Handler) SavePreferences(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var req PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, err := h.svc.SavePreferences(c.Request().Context(), userID, req)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
