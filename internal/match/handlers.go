package match

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Handler struct {
	engine   *Engine
	recorder Recorder
}

func NewHandler(engine *Engine, recorder Recorder) *Handler {
	return &Handler{engine: engine, recorder: recorder}
}

// POST /swipes/me
func (h *Handler) SubmitSwipes(c echo.Context) error {
	userID, err := apperr.UserID(c)
	if err != nil {
		return err
	}
	var reqs []SwipeRequest
	if err := c.Bind(&reqs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	for _, r := range reqs {
		if err := apperr.RequireID("swiper_plant_id", r.SwiperPlantID); err != nil {
			return apperr.JSON(c, err)
		}
		if err := apperr.RequireID("swiped_plant_id", r.SwipedPlantID); err != nil {
			return apperr.JSON(c, err)
		}
	}
	results, err := h.engine.Submit(c.Request().Context(), h.recorder, userID, reqs)
	if err != nil {
		return apperr.JSON(c, err)
	}
	events := Matches(results)
	return c.JSON(http.StatusOK, echo.Map{
		"is_match": len(events) > 0,
		"matches":  events,
		"results":  results,
	})
}
