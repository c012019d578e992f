package swipe

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/plant"
	"github.com/sudo-init-do/cuttr/internal/user"
)

type UserLookup interface {
	Get(ctx context.Context, id string) (user.User, error)
}

type Handler struct {
	ledger *Ledger
	users  UserLookup
}

func NewHandler(ledger *Ledger, users UserLookup) *Handler {
	return &Handler{ledger: ledger, users: users}
}

// GET /plants/liked-by-me/from/:userId
func (h *Handler) LikedByMeFrom(c echo.Context) error {
	me, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	other := c.Param("userId")
	plants, err := h.likedBetween(c.Request().Context(), me, other)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plants": plants})
}

// GET /plants/liked-by/:userId/from-me
func (h *Handler) LikedFromMeBy(c echo.Context) error {
	me, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	other := c.Param("userId")
	plants, err := h.likedBetween(c.Request().Context(), other, me)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plants": plants})
}

func (h *Handler) likedBetween(ctx context.Context, liker, owner string) ([]plant.Plant, error) {
	for _, id := range []string{liker, owner} {
		if err := apperr.RequireID("user id", id); err != nil {
			return nil, err
		}
		if _, err := h.users.Get(ctx, id); err != nil {
			return nil, err
		}
	}
	return h.ledger.LikedPlantsBetween(ctx, liker, owner)
}
