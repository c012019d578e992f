package plant

import (
	"time"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Plant struct {
	ID            string           `json:"plant_id"`
	UserID        string           `json:"user_id"`
	SpeciesName   string           `json:"species_name"`
	Description   string           `json:"description,omitempty"`
	Stage         Stage            `json:"plant_stage"`
	Category      Category         `json:"plant_category,omitempty"`
	WateringNeed  WateringNeed     `json:"watering_need,omitempty"`
	Light         LightRequirement `json:"light_requirement,omitempty"`
	Size          Size             `json:"size,omitempty"`
	IndoorOutdoor IndoorOutdoor    `json:"indoor_outdoor,omitempty"`
	Propagation   PropagationEase  `json:"propagation_ease,omitempty"`
	PetFriendly   PetFriendly      `json:"pet_friendly,omitempty"`
	Extras        []Extra          `json:"extras"`
	ImageURL      string           `json:"image_url,omitempty"`
	IsTraded      bool             `json:"is_traded"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Attribute names a single-valued categorical plant attribute. Its value is
// also the plants column that stores it.
type Attribute string

const (
	AttrStage         Attribute = "plant_stage"
	AttrCategory      Attribute = "plant_category"
	AttrWateringNeed  Attribute = "watering_need"
	AttrLight         Attribute = "light_requirement"
	AttrSize          Attribute = "size"
	AttrIndoorOutdoor Attribute = "indoor_outdoor"
	AttrPropagation   Attribute = "propagation_ease"
	AttrPetFriendly   Attribute = "pet_friendly"
)

// Value returns the plant's value for a, or "" when unset.
func (p Plant) Value(a Attribute) string {
	switch a {
	case AttrStage:
		return string(p.Stage)
	case AttrCategory:
		return string(p.Category)
	case AttrWateringNeed:
		return string(p.WateringNeed)
	case AttrLight:
		return string(p.Light)
	case AttrSize:
		return string(p.Size)
	case AttrIndoorOutdoor:
		return string(p.IndoorOutdoor)
	case AttrPropagation:
		return string(p.Propagation)
	case AttrPetFriendly:
		return string(p.PetFriendly)
	}
	return ""
}

func (p Plant) HasAnyExtra(extras []Extra) bool {
	for _, want := range extras {
		for _, have := range p.Extras {
			if want == have {
				return true
			}
		}
	}
	return false
}

type CreateRequest struct {
	SpeciesName      string   `json:"species_name"`
	Description      string   `json:"description"`
	PlantStage       string   `json:"plant_stage"`
	PlantCategory    string   `json:"plant_category"`
	WateringNeed     string   `json:"watering_need"`
	LightRequirement string   `json:"light_requirement"`
	Size             string   `json:"size"`
	IndoorOutdoor    string   `json:"indoor_outdoor"`
	PropagationEase  string   `json:"propagation_ease"`
	PetFriendly      string   `json:"pet_friendly"`
	Extras           []string `json:"extras"`
	ImageURL         string   `json:"image_url"`
}

// toPlant validates every enum at the boundary.
func (r CreateRequest) toPlant(ownerID string) (Plant, error) {
	var (
		p   = Plant{UserID: ownerID, SpeciesName: r.SpeciesName, Description: r.Description, ImageURL: r.ImageURL}
		err error
	)
	if p.SpeciesName == "" {
		return p, apperr.Validation("species_name is required")
	}
	if p.Stage, err = Parse("plant_stage", r.PlantStage, Stages); err != nil {
		return p, err
	}
	if p.Category, err = ParseOptional("plant_category", r.PlantCategory, Categories); err != nil {
		return p, err
	}
	if p.WateringNeed, err = ParseOptional("watering_need", r.WateringNeed, WateringNeeds); err != nil {
		return p, err
	}
	if p.Light, err = ParseOptional("light_requirement", r.LightRequirement, LightRequirements); err != nil {
		return p, err
	}
	if p.Size, err = ParseOptional("size", r.Size, Sizes); err != nil {
		return p, err
	}
	if p.IndoorOutdoor, err = ParseOptional("indoor_outdoor", r.IndoorOutdoor, IndoorOutdoors); err != nil {
		return p, err
	}
	if p.Propagation, err = ParseOptional("propagation_ease", r.PropagationEase, PropagationEases); err != nil {
		return p, err
	}
	if p.PetFriendly, err = ParseOptional("pet_friendly", r.PetFriendly, PetFriendlies); err != nil {
		return p, err
	}
	if p.Extras, err = ParseSet("extras", r.Extras, Extras); err != nil {
		return p, err
	}
	return p, nil
}
