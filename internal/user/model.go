package user

import (
	"time"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/geo"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	Role              string     `json:"role,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	Location          *geo.Point `json:"location,omitempty"`
	ExpoPushToken     string     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Public strips fields only the owner may see.
func (u User) Public() User {
	u.Email = ""
	u.Location = nil
	return u
}

// Preferences is a user's candidate filter. An empty set for an attribute
// means every value is acceptable.
type Preferences struct {
	UserID            string                   `json:"user_id"`
	SearchRadiusKm    int                      `json:"search_radius_km"`
	Stages            []plant.Stage            `json:"preferred_plant_stage"`
	Categories        []plant.Category         `json:"preferred_plant_category"`
	WateringNeeds     []plant.WateringNeed     `json:"preferred_watering_need"`
	LightRequirements []plant.LightRequirement `json:"preferred_light_requirement"`
	Sizes             []plant.Size             `json:"preferred_size"`
	IndoorOutdoors    []plant.IndoorOutdoor    `json:"preferred_indoor_outdoor"`
	PropagationEases  []plant.PropagationEase  `json:"preferred_propagation_ease"`
	PetFriendlies     []plant.PetFriendly      `json:"preferred_pet_friendly"`
	Extras            []plant.Extra            `json:"preferred_extras"`
}

type PreferencesRequest struct {
	SearchRadiusKm    int      `json:"search_radius_km"`
	Stages            []string `json:"preferred_plant_stage"`
	Categories        []string `json:"preferred_plant_category"`
	WateringNeeds     []string `json:"preferred_watering_need"`
	LightRequirements []string `json:"preferred_light_requirement"`
	Sizes             []string `json:"preferred_size"`
	IndoorOutdoors    []string `json:"preferred_indoor_outdoor"`
	PropagationEases  []string `json:"preferred_propagation_ease"`
	PetFriendlies     []string `json:"preferred_pet_friendly"`
	Extras            []string `json:"preferred_extras"`
}

func (r PreferencesRequest) toPreferences(userID string) (Preferences, error) {
	var (
		p   = Preferences{UserID: userID, SearchRadiusKm: r.SearchRadiusKm}
		err error
	)
	if r.SearchRadiusKm < 0 {
		return p, apperr.Validation("search_radius_km must not be negative")
	}
	if p.Stages, err = plant.ParseSet("preferred_plant_stage", r.Stages, plant.Stages); err != nil {
		return p, err
	}
	if p.Categories, err = plant.ParseSet("preferred_plant_category", r.Categories, plant.Categories); err != nil {
		return p, err
	}
	if p.WateringNeeds, err = plant.ParseSet("preferred_watering_need", r.WateringNeeds, plant.WateringNeeds); err != nil {
		return p, err
	}
	if p.LightRequirements, err = plant.ParseSet("preferred_light_requirement", r.LightRequirements, plant.LightRequirements); err != nil {
		return p, err
	}
	if p.Sizes, err = plant.ParseSet("preferred_size", r.Sizes, plant.Sizes); err != nil {
		return p, err
	}
	if p.IndoorOutdoors, err = plant.ParseSet("preferred_indoor_outdoor", r.IndoorOutdoors, plant.IndoorOutdoors); err != nil {
		return p, err
	}
	if p.PropagationEases, err = plant.ParseSet("preferred_propagation_ease", r.PropagationEases, plant.PropagationEases); err != nil {
		return p, err
	}
	if p.PetFriendlies, err = plant.ParseSet("preferred_pet_friendly", r.PetFriendlies, plant.PetFriendlies); err != nil {
		return p, err
	}
	if p.Extras, err = plant.ParseSet("preferred_extras", r.Extras, plant.Extras); err != nil {
		return p, err
	}
	return p, nil
}

type ProfileUpdate struct {
	Name              string `json:"name"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
}
