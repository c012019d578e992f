package candidate

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Handler struct {
	selector   *Selector
	defaultMax int
}

func NewHandler(selector *Selector, defaultMax int) *Handler {
	return &Handler{selector: selector, defaultMax: defaultMax}
}

// GET /plants/likable?max=
func (h *Handler) Likable(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	maxCount := h.defaultMax
	if raw := c.QueryParam("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.JSON(c, apperr.Validation("max must be an integer"))
		}
		maxCount = n
	}

	plants, err := h.selector.SelectCandidates(c.Request().Context(), userID, maxCount)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"plants": plants})
}
