package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

type Handler struct {
	q db.Querier
}

func NewHandler(q db.Querier) *Handler {
	return &Handler{q: q}
}

type Stats struct {
	Users        int            `json:"users"`
	Plants       int            `json:"plants"`
	TradedPlants int            `json:"traded_plants"`
	Swipes       int            `json:"swipes"`
	Connections  int            `json:"connections"`
	Matches      int            `json:"matches"`
	Proposals    map[string]int `json:"proposals"`
	OpenReports  int            `json:"open_reports"`
}

func (h *Handler) stats(ctx context.Context) (Stats, error) {
	s := Stats{Proposals: map[string]int{}}
	err := h.q.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM plants),
            (SELECT COUNT(*) FROM plants WHERE is_traded),
            (SELECT COUNT(*) FROM swipes),
            (SELECT COUNT(*) FROM connections),
            (SELECT COUNT(*) FROM matches),
            (SELECT COUNT(*) FROM reports WHERE NOT is_resolved)`,
	).Scan(&s.Users, &s.Plants, &s.TradedPlants, &s.Swipes, &s.Connections, &s.Matches, &s.OpenReports)
	if err != nil {
		return s, apperr.Wrap(err, "could not compute stats")
	}

	rows, err := h.q.Query(ctx, `SELECT status, COUNT(*) FROM trade_proposals GROUP BY status`)
	if err != nil {
		return s, apperr.Wrap(err, "could not count proposals")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return s, apperr.Wrap(err, "could not count proposals")
		}
		s.Proposals[status] = n
	}
	return s, apperr.Wrap(rows.Err(), "could not count proposals")
}

// GET /admin/stats
func (h *Handler) Stats(c echo.Context) error {
	s, err := h.stats(c.Request().Context())
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
