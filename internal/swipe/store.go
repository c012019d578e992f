package swipe

import (
	"context"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) Insert(ctx context.Context, sw *Swipe) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO swipes (id, swiper_plant_id, swiped_plant_id, is_like, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		sw.ID, sw.SwiperPlantID, sw.SwipedPlantID, sw.IsLike, sw.CreatedAt)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict("plant %s has already swiped on plant %s", sw.SwiperPlantID, sw.SwipedPlantID)
	}
	return apperr.Wrap(err, "failed to record swipe")
}

func (s *PGStore) Find(ctx context.Context, swiperPlantID, swipedPlantID string) (*Swipe, error) {
	var sw Swipe
	err := s.q.QueryRow(ctx, `
        SELECT id::text, swiper_plant_id::text, swiped_plant_id::text, is_like, created_at
        FROM swipes WHERE swiper_plant_id = $1 AND swiped_plant_id = $2`,
		swiperPlantID, swipedPlantID,
	).Scan(&sw.ID, &sw.SwiperPlantID, &sw.SwipedPlantID, &sw.IsLike, &sw.CreatedAt)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch swipe")
	}
	return &sw, nil
}

func (s *PGStore) JudgmentCounts(ctx context.Context, userPlantIDs, candidatePlantIDs []string) (map[string]int, error) {
	rows, err := s.q.Query(ctx, `
        SELECT swiped_plant_id::text, COUNT(*)
        FROM swipes
        WHERE swiper_plant_id = ANY($1::uuid[]) AND swiped_plant_id = ANY($2::uuid[])
        GROUP BY swiped_plant_id`, userPlantIDs, candidatePlantIDs)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to count swipes")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, apperr.Wrap(err, "failed to parse swipe counts")
		}
		counts[id] = n
	}
	return counts, apperr.Wrap(rows.Err(), "failed to count swipes")
}

func (s *PGStore) LikedPlants(ctx context.Context, likerUserID, ownerUserID string) ([]plant.Plant, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+plant.Columns+`
        FROM plants p
        WHERE p.user_id = $2 AND p.is_traded = FALSE
          AND EXISTS (
            SELECT 1 FROM swipes sw
            JOIN plants mine ON mine.id = sw.swiper_plant_id
            WHERE sw.swiped_plant_id = p.id AND sw.is_like AND mine.user_id = $1
          )
        ORDER BY p.created_at DESC`, likerUserID, ownerUserID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list liked plants")
	}
	plants, err := plant.ScanRows(rows)
	return plants, apperr.Wrap(err, "failed to parse liked plants")
}
