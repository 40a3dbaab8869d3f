package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommodityKey(t *testing.T) {
	assert.Equal(t, "item:gt.metaitem.01:32306", Item("gt.metaitem.01", 32306).Key())
	assert.Equal(t, "fluid:sulfuricacid:0", Fluid("sulfuricacid").Key())
}

func TestParseKey(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		for _, c := range []Commodity{
			Item("iron_ingot", 0),
			Item("gt.metaitem.01", 32306),
			Item("minecraft:dye", 4), // ids may contain colons
			Fluid("oxygen"),
		} {
			parsed, err := ParseKey(c.Key())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		for _, key := range []string{"", "item", "item:x", "gas:x:0", "item:x:notanumber", "fluid:x:3"} {
			_, err := ParseKey(key)
			assert.Error(t, err, "key %q", key)
		}
	})
}

func TestCommodityIsValid(t *testing.T) {
	assert.True(t, Item("x", 5).IsValid())
	assert.True(t, Fluid("water").IsValid())
	assert.False(t, Commodity{Kind: KindItem}.IsValid(), "empty id")
	assert.False(t, Commodity{Kind: KindFluid, ID: "water", Meta: 1}.IsValid())
	assert.False(t, Commodity{Kind: "gas", ID: "x"}.IsValid())
}

func TestRecipeFlows(t *testing.T) {
	chance := 0.25
	r := &RecipeDefinition{
		RID: "r", BaseDurationTicks: 100, BaseEUT: 32,
		ItemInputs:   []ItemStack{{ID: "ore", Count: 2}},
		FluidInputs:  []FluidStack{{ID: "water", MB: 1000}},
		ItemOutputs:  []ItemOutput{{ID: "ingot", Count: 1}, {ID: "slag", Count: 1, Chance: &chance}},
		FluidOutputs: []FluidOutput{{ID: "steam", MB: 500}},
	}

	assert.Len(t, r.Inputs(), 2)
	assert.Len(t, r.Outputs(), 3)
	assert.Equal(t, float64(100*32), r.EnergyPerCycle())

	out, ok := r.OutputFor(Item("slag", 0))
	require.True(t, ok)
	require.NotNil(t, out.Chance)
	assert.Equal(t, 0.25, *out.Chance)

	_, ok = r.OutputFor(Item("ore", 0))
	assert.False(t, ok)

	in, ok := r.InputFor(Fluid("water"))
	require.True(t, ok)
	assert.Equal(t, 1000.0, in.Amount)
}
