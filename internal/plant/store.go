package plant

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
)

// Columns is the select list ScanRow expects, aliased on "p".
const Columns = `p.id::text, p.user_id::text, p.species_name, COALESCE(p.description, ''),
    p.plant_stage, COALESCE(p.plant_category, ''), COALESCE(p.watering_need, ''),
    COALESCE(p.light_requirement, ''), COALESCE(p.size, ''), COALESCE(p.indoor_outdoor, ''),
    COALESCE(p.propagation_ease, ''), COALESCE(p.pet_friendly, ''), p.extras,
    COALESCE(p.image_url, ''), p.is_traded, p.created_at`

// ScanRow reads one row selected with Columns.
func ScanRow(row pgx.Row) (Plant, error) {
	var (
		p      Plant
		extras []string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.SpeciesName, &p.Description,
		&p.Stage, &p.Category, &p.WateringNeed,
		&p.Light, &p.Size, &p.IndoorOutdoor,
		&p.Propagation, &p.PetFriendly, &extras,
		&p.ImageURL, &p.IsTraded, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	p.Stage = FromString("plant_stage", string(p.Stage), Stages)
	p.Category = FromString("plant_category", string(p.Category), Categories)
	p.WateringNeed = FromString("watering_need", string(p.WateringNeed), WateringNeeds)
	p.Light = FromString("light_requirement", string(p.Light), LightRequirements)
	p.Size = FromString("size", string(p.Size), Sizes)
	p.IndoorOutdoor = FromString("indoor_outdoor", string(p.IndoorOutdoor), IndoorOutdoors)
	p.Propagation = FromString("propagation_ease", string(p.Propagation), PropagationEases)
	p.PetFriendly = FromString("pet_friendly", string(p.PetFriendly), PetFriendlies)
	p.Extras = FromStrings("extras", extras, Extras)
	return p, nil
}

// ScanRows drains rows into plants and closes them.
func ScanRows(rows pgx.Rows) ([]Plant, error) {
	defer rows.Close()
	out := []Plant{}
	for rows.Next() {
		p, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type Store interface {
	Create(ctx context.Context, p *Plant) error
	Get(ctx context.Context, id string) (Plant, error)
	ListByOwner(ctx context.Context, userID string, tradableOnly bool) ([]Plant, error)
	Update(ctx context.Context, p *Plant) error
	SetTraded(ctx context.Context, id string) error
	// InUse reports whether the plant is part of a match or trade proposal.
	InUse(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	UserExists(ctx context.Context, userID string) (bool, error)
}

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) Create(ctx context.Context, p *Plant) error {
	p.CreatedAt = time.Now().UTC()
	_, err := s.q.Exec(ctx, `
        INSERT INTO plants (id, user_id, species_name, description, plant_stage, plant_category,
            watering_need, light_requirement, size, indoor_outdoor, propagation_ease, pet_friendly,
            extras, image_url, is_traded, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''),
            NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), $13, NULLIF($14, ''), FALSE, $15)`,
		p.ID, p.UserID, p.SpeciesName, p.Description, string(p.Stage), string(p.Category),
		string(p.WateringNeed), string(p.Light), string(p.Size), string(p.IndoorOutdoor),
		string(p.Propagation), string(p.PetFriendly), Strings(p.Extras), p.ImageURL, p.CreatedAt,
	)
	return apperr.Wrap(err, "failed to create plant")
}

func (s *PGStore) Get(ctx context.Context, id string) (Plant, error) {
	p, err := ScanRow(s.q.QueryRow(ctx, `SELECT `+Columns+` FROM plants p WHERE p.id = $1`, id))
	if db.IsNoRows(err) {
		return p, apperr.NotFound("plant %s not found", id)
	}
	return p, apperr.Wrap(err, "failed to fetch plant")
}

func (s *PGStore) ListByOwner(ctx context.Context, userID string, tradableOnly bool) ([]Plant, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+Columns+` FROM plants p
        WHERE p.user_id = $1 AND (NOT $2 OR p.is_traded = FALSE)
        ORDER BY p.created_at DESC`, userID, tradableOnly)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list plants")
	}
	plants, err := ScanRows(rows)
	return plants, apperr.Wrap(err, "failed to parse plants")
}

func (s *PGStore) SetTraded(ctx context.Context, id string) error {
	res, err := s.q.Exec(ctx, `UPDATE plants SET is_traded = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(err, "failed to mark plant as traded")
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("plant %s not found", id)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, p *Plant) error {
	res, err := s.q.Exec(ctx, `
        UPDATE plants SET species_name = $2, description = NULLIF($3, ''), plant_stage = $4,
            plant_category = NULLIF($5, ''), watering_need = NULLIF($6, ''), light_requirement = NULLIF($7, ''),
            size = NULLIF($8, ''), indoor_outdoor = NULLIF($9, ''), propagation_ease = NULLIF($10, ''),
            pet_friendly = NULLIF($11, ''), extras = $12, image_url = NULLIF($13, ''), updated_at = NOW()
        WHERE id = $1`,
		p.ID, p.SpeciesName, p.Description, string(p.Stage), string(p.Category),
		string(p.WateringNeed), string(p.Light), string(p.Size), string(p.IndoorOutdoor),
		string(p.Propagation), string(p.PetFriendly), Strings(p.Extras), p.ImageURL,
	)
	if err != nil {
		return apperr.Wrap(err, "failed to update plant")
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("plant %s not found", p.ID)
	}
	return nil
}

func (s *PGStore) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := s.q.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM matches WHERE plant_id1 = $1 OR plant_id2 = $1)
            OR EXISTS (SELECT 1 FROM trade_proposal_plants WHERE plant_id = $1)`, id,
	).Scan(&used)
	return used, apperr.Wrap(err, "failed to check plant usage")
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.q.Exec(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(err, "failed to delete plant")
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("plant %s not found", id)
	}
	return nil
}

func (s *PGStore) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, apperr.Wrap(err, "failed to fetch user")
}
