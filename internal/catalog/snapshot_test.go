package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

func buildTestSnapshot() *Snapshot {
	recipes := []*domain.RecipeDefinition{
		{
			RID: "expensive", MachineID: "ebf", BaseDurationTicks: 200, BaseEUT: 120, MinTier: "HV",
			ItemInputs:  []domain.ItemStack{{ID: "ore", Count: 2}},
			ItemOutputs: []domain.ItemOutput{{ID: "steel", Count: 1}},
		},
		{
			RID: "cheap", MachineID: "furnace", BaseDurationTicks: 100, BaseEUT: 16, MinTier: "LV",
			ItemInputs:  []domain.ItemStack{{ID: "ore", Count: 1}},
			ItemOutputs: []domain.ItemOutput{{ID: "steel", Count: 1}},
		},
		{
			RID: "tie_b", MachineID: "mixer", BaseDurationTicks: 40, BaseEUT: 40, MinTier: "LV",
			FluidOutputs: []domain.FluidOutput{{ID: "slurry", MB: 100}},
		},
		{
			RID: "tie_a", MachineID: "mixer", BaseDurationTicks: 40, BaseEUT: 40, MinTier: "LV",
			FluidOutputs: []domain.FluidOutput{{ID: "slurry", MB: 100}},
		},
	}
	names := Names{
		Items:    map[string]string{"item:steel:0": "Steel Ingot", "item:ore:0": "Iron Ore"},
		Fluids:   map[string]string{"fluid:slurry:0": "Ore Slurry"},
		Machines: map[string]string{"furnace": "Electric Furnace", "ebf": "Electric Blast Furnace"},
	}
	return Build("2.7.4", recipes, names)
}

func TestBuild_ProducerOrdering(t *testing.T) {
	snap := buildTestSnapshot()

	t.Run("lowest energy first", func(t *testing.T) {
		producers := snap.LookupByOutput(domain.Item("steel", 0))
		require.Len(t, producers, 2)
		assert.Equal(t, "cheap", producers[0].RID) // 1600 < 24000
		assert.Equal(t, "expensive", producers[1].RID)

		def, ok := snap.DefaultFor(domain.Item("steel", 0))
		require.True(t, ok)
		assert.Equal(t, "cheap", def.RID)
	})

	t.Run("energy ties break by rid", func(t *testing.T) {
		producers := snap.LookupByOutput(domain.Fluid("slurry"))
		require.Len(t, producers, 2)
		assert.Equal(t, "tie_a", producers[0].RID)
	})

	t.Run("no producers", func(t *testing.T) {
		_, ok := snap.DefaultFor(domain.Item("nothing", 0))
		assert.False(t, ok)
	})
}

func TestBuild_LeavesInputDefinitionsAlone(t *testing.T) {
	def := &domain.RecipeDefinition{
		RID: "r", MachineID: "furnace", BaseDurationTicks: 10, BaseEUT: 4, MinTier: "LV",
		ItemOutputs: []domain.ItemOutput{{ID: "steel", Count: 1}},
	}
	snap := Build("v1", []*domain.RecipeDefinition{def},
		Names{Machines: map[string]string{"furnace": "Electric Furnace"}})

	r, ok := snap.LookupByRid("r")
	require.True(t, ok)
	assert.Equal(t, "Electric Furnace", r.MachineName)
	assert.Empty(t, def.MachineName, "caller's definition must stay untouched")
}

func TestSnapshot_Lookups(t *testing.T) {
	snap := buildTestSnapshot()

	consumers := snap.LookupByInput(domain.Item("ore", 0))
	require.Len(t, consumers, 2)
	assert.Equal(t, "cheap", consumers[0].RID) // rid order

	r, ok := snap.LookupByRid("expensive")
	require.True(t, ok)
	assert.Equal(t, "Electric Blast Furnace", r.MachineName)

	_, ok = snap.LookupByRid("missing")
	assert.False(t, ok)
}

func TestSnapshot_Search(t *testing.T) {
	snap := buildTestSnapshot()

	t.Run("matches display names case-insensitively", func(t *testing.T) {
		results := snap.SearchItems("STEEL", 10)
		require.Len(t, results, 1)
		assert.Equal(t, "Steel Ingot", results[0].Name)
	})

	t.Run("matches ids", func(t *testing.T) {
		results := snap.SearchItems("ore", 10)
		require.Len(t, results, 1)
		assert.Equal(t, "Iron Ore", results[0].Name)
	})

	t.Run("fluids are a separate index", func(t *testing.T) {
		assert.Empty(t, snap.SearchItems("slurry", 10))
		assert.Len(t, snap.SearchFluids("slurry", 10), 1)
	})

	t.Run("limit caps results", func(t *testing.T) {
		assert.Len(t, snap.SearchItems("", 1), 1)
	})
}

func TestSnapshot_Names(t *testing.T) {
	snap := buildTestSnapshot()

	assert.Equal(t, "Steel Ingot", snap.DisplayName(domain.Item("steel", 0)))
	assert.Equal(t, "unknown", snap.DisplayName(domain.Item("unknown", 0)), "falls back to item id")
	assert.Equal(t, "Ore Slurry", snap.DisplayName(domain.Fluid("slurry")))
	assert.Equal(t, "brine", snap.DisplayName(domain.Fluid("brine")), "falls back to fluid id")
	assert.Equal(t, "mixer", snap.MachineName("mixer"), "falls back to machine id")
}

func TestSnapshot_Machines(t *testing.T) {
	snap := buildTestSnapshot()

	assert.Equal(t, []string{"ebf", "furnace", "mixer"}, snap.Machines())

	counts := snap.MachineCountsForOutput(domain.Item("steel", 0))
	require.Len(t, counts, 2)
	assert.Equal(t, "ebf", counts[0].MachineID)
	assert.Equal(t, 1, counts[0].RecipeCount)
}

func TestProvider_RefreshSwapsAtomically(t *testing.T) {
	snap := buildTestSnapshot()
	p := NewProvider(loaderFunc(func() (*Snapshot, error) { return snap, nil }))

	assert.Nil(t, p.Current())
	_, ok := p.CurrentVersion()
	assert.False(t, ok)

	loaded, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, loaded)
	assert.Same(t, snap, p.Current())

	version, ok := p.CurrentVersion()
	require.True(t, ok)
	assert.Equal(t, "2.7.4", version)
}

type loaderFunc func() (*Snapshot, error)

func (f loaderFunc) Load(_ context.Context) (*Snapshot, error) { return f() }
