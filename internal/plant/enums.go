package plant

import (
	"log"
	"strings"

	"github.com/sudo-init-do/cuttr/internal/apperr"
)

type Stage string

const (
	StageSeedling Stage = "Seedling"
	StageCutting  Stage = "Cutting"
	StageMature   Stage = "Mature"
)

var Stages = []Stage{StageSeedling, StageCutting, StageMature}

type Category string

const (
	CategorySucculent       Category = "Succulent"
	CategoryCactus          Category = "Cactus"
	CategoryFern            Category = "Fern"
	CategoryOrchid          Category = "Orchid"
	CategoryHerb            Category = "Herb"
	CategoryPalm            Category = "Palm"
	CategoryLeafyHouseplant Category = "LeafyHouseplant"
	CategoryAquaticPlant    Category = "AquaticPlant"
	CategoryClimbingPlant   Category = "ClimbingPlant"
	CategoryTree            Category = "Tree"
	CategoryOther           Category = "Other"
)

var Categories = []Category{
	CategorySucculent, CategoryCactus, CategoryFern, CategoryOrchid, CategoryHerb, CategoryPalm,
	CategoryLeafyHouseplant, CategoryAquaticPlant, CategoryClimbingPlant, CategoryTree, CategoryOther,
}

type WateringNeed string

const (
	VeryLowWater  WateringNeed = "VeryLowWater"
	LowWater      WateringNeed = "LowWater"
	ModerateWater WateringNeed = "ModerateWater"
	HighWater     WateringNeed = "HighWater"
	VeryHighWater WateringNeed = "VeryHighWater"
)

var WateringNeeds = []WateringNeed{VeryLowWater, LowWater, ModerateWater, HighWater, VeryHighWater}

type LightRequirement string

const (
	FullSun             LightRequirement = "FullSun"
	PartialSun          LightRequirement = "PartialSun"
	BrightIndirectLight LightRequirement = "BrightIndirectLight"
	LowLight            LightRequirement = "LowLight"
)

var LightRequirements = []LightRequirement{FullSun, PartialSun, BrightIndirectLight, LowLight}

type Size string

const (
	SmallSize  Size = "SmallSize"
	MediumSize Size = "MediumSize"
	LargeSize  Size = "LargeSize"
)

var Sizes = []Size{SmallSize, MediumSize, LargeSize}

type IndoorOutdoor string

const (
	Indoor           IndoorOutdoor = "Indoor"
	Outdoor          IndoorOutdoor = "Outdoor"
	IndoorAndOutdoor IndoorOutdoor = "IndoorAndOutdoor"
)

var IndoorOutdoors = []IndoorOutdoor{Indoor, Outdoor, IndoorAndOutdoor}

type PropagationEase string

const (
	EasyPropagation      PropagationEase = "EasyPropagation"
	ModeratePropagation  PropagationEase = "ModeratePropagation"
	DifficultPropagation PropagationEase = "DifficultPropagation"
)

var PropagationEases = []PropagationEase{EasyPropagation, ModeratePropagation, DifficultPropagation}

type PetFriendly string

const (
	PetFriendlyYes PetFriendly = "PetFriendly"
	NotPetFriendly PetFriendly = "NotPetFriendly"
)

var PetFriendlies = []PetFriendly{PetFriendlyYes, NotPetFriendly}

type Extra string

const (
	Fragrant           Extra = "Fragrant"
	Edible             Extra = "Edible"
	Medicinal          Extra = "Medicinal"
	AirPurifying       Extra = "AirPurifying"
	Decorative         Extra = "Decorative"
	Flowering          Extra = "Flowering"
	TropicalVibe       Extra = "TropicalVibe"
	FoliageHeavy       Extra = "FoliageHeavy"
	DroughtTolerant    Extra = "DroughtTolerant"
	HumidityLoving     Extra = "HumidityLoving"
	LowMaintenance     Extra = "LowMaintenance"
	WinterHardy        Extra = "WinterHardy"
	BeginnerFriendly   Extra = "BeginnerFriendly"
	Fruiting           Extra = "Fruiting"
	PollinatorFriendly Extra = "PollinatorFriendly"
	FastGrowing        Extra = "FastGrowing"
	VariegatedFoliage  Extra = "VariegatedFoliage"
	Climbing           Extra = "Climbing"
	GroundCover        Extra = "GroundCover"
	Rare               Extra = "Rare"
)

var Extras = []Extra{
	Fragrant, Edible, Medicinal, AirPurifying, Decorative, Flowering, TropicalVibe, FoliageHeavy,
	DroughtTolerant, HumidityLoving, LowMaintenance, WinterHardy, BeginnerFriendly, Fruiting,
	PollinatorFriendly, FastGrowing, VariegatedFoliage, Climbing, GroundCover, Rare,
}

// Parse maps s onto one of allowed, matching case-insensitively.
func Parse[T ~string](field, s string, allowed []T) (T, error) {
	for _, v := range allowed {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	var zero T
	return zero, apperr.Validation("invalid %s %q", field, s)
}

// ParseOptional is Parse that accepts the empty string as "unset".
func ParseOptional[T ~string](field, s string, allowed []T) (T, error) {
	if strings.TrimSpace(s) == "" {
		var zero T
		return zero, nil
	}
	return Parse(field, s, allowed)
}

// ParseSet parses every value and drops duplicates, keeping first-seen order.
func ParseSet[T ~string](field string, in []string, allowed []T) ([]T, error) {
	out := make([]T, 0, len(in))
	seen := make(map[T]bool, len(in))
	for _, s := range in {
		v, err := Parse(field, s, allowed)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

// Strings converts a typed set back to its storage form.
func Strings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

// FromString checks a stored value against allowed. Unknown values are
// logged and read back as unset.
func FromString[T ~string](field, s string, allowed []T) T {
	if s == "" {
		return ""
	}
	for _, v := range allowed {
		if string(v) == s {
			return v
		}
	}
	log.Printf("[plant] ignoring unknown stored %s %q", field, s)
	return ""
}

// FromStrings checks a stored set against allowed, skipping unknown values.
func FromStrings[T ~string](field string, in []string, allowed []T) []T {
	out := make([]T, 0, len(in))
	for _, s := range in {
		if v := FromString(field, s, allowed); v != "" {
			out = append(out, v)
		}
	}
	return out
}
