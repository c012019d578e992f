package candidate

import (
	"fmt"
	"strings"

	"github.com/sudo-init-do/cuttr/internal/geo"
	"github.com/sudo-init-do/cuttr/internal/plant"
	"github.com/sudo-init-do/cuttr/internal/user"
)

// Clause restricts one categorical attribute to a set of acceptable values.
type Clause struct {
	Attribute plant.Attribute
	Values    []string
}

// Filter is the broad, database-side half of candidate selection.
// Clauses combine with AND; values inside a clause combine with OR.
type Filter struct {
	ExcludeUserID string
	Origin        geo.Point
	RadiusMeters  float64
	Clauses       []Clause
	// Extras matches plants carrying at least one of the tags.
	Extras []plant.Extra
}

// NewFilter builds the filter for a user at origin. Empty preference sets add
// no clause. radiusKm <= 0 falls back to defaultRadiusKm.
func NewFilter(userID string, origin geo.Point, prefs user.Preferences, defaultRadiusKm int) Filter {
	radiusKm := prefs.SearchRadiusKm
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	f := Filter{
		ExcludeUserID: userID,
		Origin:        origin,
		RadiusMeters:  geo.KmToMeters(radiusKm),
		Extras:        prefs.Extras,
	}
	f.add(plant.AttrStage, plant.Strings(prefs.Stages))
	f.add(plant.AttrCategory, plant.Strings(prefs.Categories))
	f.add(plant.AttrWateringNeed, plant.Strings(prefs.WateringNeeds))
	f.add(plant.AttrLight, plant.Strings(prefs.LightRequirements))
	f.add(plant.AttrSize, plant.Strings(prefs.Sizes))
	f.add(plant.AttrIndoorOutdoor, plant.Strings(prefs.IndoorOutdoors))
	f.add(plant.AttrPropagation, plant.Strings(prefs.PropagationEases))
	f.add(plant.AttrPetFriendly, plant.Strings(prefs.PetFriendlies))
	return f
}

func (f *Filter) add(a plant.Attribute, values []string) {
	if len(values) == 0 {
		return
	}
	f.Clauses = append(f.Clauses, Clause{Attribute: a, Values: values})
}

// SQL renders the WHERE body for plants aliased "p" joined to their owner
// aliased "u". Placeholders start at $startArg.
func (f Filter) SQL(startArg int) (string, []interface{}) {
	n := startArg
	args := []interface{}{}
	next := func(v interface{}) int {
		args = append(args, v)
		n++
		return n - 1
	}

	conds := []string{
		"p.is_traded = FALSE",
		fmt.Sprintf("p.user_id <> $%d", next(f.ExcludeUserID)),
		"u.location_lat IS NOT NULL",
		"u.location_lon IS NOT NULL",
	}
	lat := next(f.Origin.Lat)
	lon := next(f.Origin.Lon)
	radius := next(f.RadiusMeters)
	conds = append(conds, geo.WithinSQL("u.location_lat", "u.location_lon", lat, lon, radius))

	for _, c := range f.Clauses {
		conds = append(conds, fmt.Sprintf("p.%s = ANY($%d::text[])", c.Attribute, next(c.Values)))
	}
	if len(f.Extras) > 0 {
		conds = append(conds, fmt.Sprintf("p.extras && $%d::text[]", next(plant.Strings(f.Extras))))
	}
	return strings.Join(conds, "\n          AND "), args
}

// Matches applies the same predicate in memory. ownerLoc is nil when the
// owner has no location.
func (f Filter) Matches(p plant.Plant, ownerLoc *geo.Point) bool {
	if p.IsTraded || p.UserID == f.ExcludeUserID || ownerLoc == nil {
		return false
	}
	if !geo.Within(f.Origin, *ownerLoc, f.RadiusMeters) {
		return false
	}
	for _, c := range f.Clauses {
		if !contains(c.Values, p.Value(c.Attribute)) {
			return false
		}
	}
	if len(f.Extras) > 0 && !p.HasAnyExtra(f.Extras) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
