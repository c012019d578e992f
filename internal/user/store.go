package user

import (
	"context"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/geo"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type Store interface {
	Get(ctx context.Context, id string) (User, error)
	// GetPreferences returns nil, nil when the user has no preferences record.
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	UpsertPreferences(ctx context.Context, p Preferences) error
	UpdateLocation(ctx context.Context, userID string, loc geo.Point) error
	UpdatePushToken(ctx context.Context, userID, token string) error
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error
	// TradesInProgress reports whether the user is party to an accepted,
	// not yet completed, trade proposal.
	TradesInProgress(ctx context.Context, userID string) (bool, error)
	Delete(ctx context.Context, userID string) error
}

type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) Get(ctx context.Context, id string) (User, error) {
	var (
		u        User
		lat, lon *float64
	)
	err := s.q.QueryRow(ctx, `
        SELECT id::text, name, email, role, COALESCE(bio, ''), COALESCE(profile_picture_url, ''),
            location_lat, location_lon, COALESCE(expo_push_token, ''), created_at
        FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Bio, &u.ProfilePictureURL, &lat, &lon, &u.ExpoPushToken, &u.CreatedAt)
	if db.IsNoRows(err) {
		return u, apperr.NotFound("user %s not found", id)
	}
	if err != nil {
		return u, apperr.Wrap(err, "failed to fetch user")
	}
	if lat != nil && lon != nil {
		u.Location = &geo.Point{Lat: *lat, Lon: *lon}
	}
	return u, nil
}

func (s *PGStore) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	var (
		p                                                 = Preferences{UserID: userID}
		stages, cats, water, light, sizes, io, prop, pets []string
		extras                                            []string
	)
	err := s.q.QueryRow(ctx, `
        SELECT search_radius_km, plant_stages, plant_categories, watering_needs, light_requirements,
            sizes, indoor_outdoors, propagation_eases, pet_friendlies, extras
        FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&p.SearchRadiusKm, &stages, &cats, &water, &light, &sizes, &io, &prop, &pets, &extras)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, "failed to fetch preferences")
	}
	p.Stages = plant.FromStrings("plant_stages", stages, plant.Stages)
	p.Categories = plant.FromStrings("plant_categories", cats, plant.Categories)
	p.WateringNeeds = plant.FromStrings("watering_needs", water, plant.WateringNeeds)
	p.LightRequirements = plant.FromStrings("light_requirements", light, plant.LightRequirements)
	p.Sizes = plant.FromStrings("sizes", sizes, plant.Sizes)
	p.IndoorOutdoors = plant.FromStrings("indoor_outdoors", io, plant.IndoorOutdoors)
	p.PropagationEases = plant.FromStrings("propagation_eases", prop, plant.PropagationEases)
	p.PetFriendlies = plant.FromStrings("pet_friendlies", pets, plant.PetFriendlies)
	p.Extras = plant.FromStrings("extras", extras, plant.Extras)
	return &p, nil
}

func (s *PGStore) UpsertPreferences(ctx context.Context, p Preferences) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO user_preferences (user_id, search_radius_km, plant_stages, plant_categories,
            watering_needs, light_requirements, sizes, indoor_outdoors, propagation_eases, pet_friendlies, extras)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (user_id) DO UPDATE SET
            search_radius_km = EXCLUDED.search_radius_km,
            plant_stages = EXCLUDED.plant_stages,
            plant_categories = EXCLUDED.plant_categories,
            watering_needs = EXCLUDED.watering_needs,
            light_requirements = EXCLUDED.light_requirements,
            sizes = EXCLUDED.sizes,
            indoor_outdoors = EXCLUDED.indoor_outdoors,
            propagation_eases = EXCLUDED.propagation_eases,
            pet_friendlies = EXCLUDED.pet_friendlies,
            extras = EXCLUDED.extras,
            updated_at = NOW()`,
		p.UserID, p.SearchRadiusKm, plant.Strings(p.Stages), plant.Strings(p.Categories),
		plant.Strings(p.WateringNeeds), plant.Strings(p.LightRequirements), plant.Strings(p.Sizes),
		plant.Strings(p.IndoorOutdoors), plant.Strings(p.PropagationEases), plant.Strings(p.PetFriendlies),
		plant.Strings(p.Extras),
	)
	return apperr.Wrap(err, "failed to save preferences")
}

func (s *PGStore) UpdateLocation(ctx context.Context, userID string, loc geo.Point) error {
	return s.updateOne(ctx, userID, "failed to update location",
		`UPDATE users SET location_lat = $1, location_lon = $2, updated_at = NOW() WHERE id = $3`,
		loc.Lat, loc.Lon, userID)
}

func (s *PGStore) UpdatePushToken(ctx context.Context, userID, token string) error {
	return s.updateOne(ctx, userID, "failed to update push token",
		`UPDATE users SET expo_push_token = NULLIF($1, ''), updated_at = NOW() WHERE id = $2`,
		token, userID)
}

func (s *PGStore) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error {
	return s.updateOne(ctx, userID, "failed to update profile", `
        UPDATE users
        SET name = COALESCE(NULLIF($1, ''), name),
            bio = COALESCE(NULLIF($2, ''), bio),
            profile_picture_url = COALESCE(NULLIF($3, ''), profile_picture_url),
            updated_at = NOW()
        WHERE id = $4`,
		upd.Name, upd.Bio, upd.ProfilePictureURL, userID)
}

func (s *PGStore) TradesInProgress(ctx context.Context, userID string) (bool, error) {
	var busy bool
	err := s.q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM trade_proposals tp
            JOIN connections c ON c.id = tp.connection_id
            WHERE tp.status = 'Accepted' AND (c.user_id1 = $1 OR c.user_id2 = $1)
        )`, userID,
	).Scan(&busy)
	return busy, apperr.Wrap(err, "failed to check trades in progress")
}

// Delete removes the account. Plants, swipes, connections, matches,
// proposals and messages go with it through ON DELETE CASCADE.
func (s *PGStore) Delete(ctx context.Context, userID string) error {
	return s.updateOne(ctx, userID, "failed to delete user", `DELETE FROM users WHERE id = $1`, userID)
}

func (s *PGStore) updateOne(ctx context.Context, userID, msg, sql string, args ...any) error {
	res, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return apperr.Wrap(err, msg)
	}
	if res.RowsAffected() == 0 {
		return apperr.NotFound("user %s not found", userID)
	}
	return nil
}
