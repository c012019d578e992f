package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/plant"
	"github.com/sudo-init-do/cuttr/internal/user"
)

func TestNewFilterSkipsEmptySets(t *testing.T) {
	f := NewFilter("me", home, user.Preferences{
		Sizes:  []plant.Size{plant.SmallSize, plant.MediumSize},
		Extras: []plant.Extra{plant.Rare},
	}, 10)

	require.Len(t, f.Clauses, 1)
	assert.Equal(t, plant.AttrSize, f.Clauses[0].Attribute)
	assert.Equal(t, []string{"SmallSize", "MediumSize"}, f.Clauses[0].Values)
	assert.Equal(t, 10000.0, f.RadiusMeters)
}

func TestFilterSQL(t *testing.T) {
	f := NewFilter("me", home, user.Preferences{
		SearchRadiusKm:    5,
		Sizes:             []plant.Size{plant.SmallSize},
		LightRequirements: []plant.LightRequirement{plant.FullSun},
		Extras:            []plant.Extra{plant.Rare},
	}, 10)

	where, args := f.SQL(1)
	assert.Contains(t, where, "p.is_traded = FALSE")
	assert.Contains(t, where, "p.user_id <> $1")
	assert.Contains(t, where, "p.light_requirement = ANY($5::text[])")
	assert.Contains(t, where, "p.size = ANY($6::text[])")
	assert.Contains(t, where, "p.extras && $7::text[]")
	require.Len(t, args, 7)
	assert.Equal(t, "me", args[0])
	assert.Equal(t, 5000.0, args[3])
}
