package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

const sampleExport = `{
  "recipeMaps": [
    {
      "displayName": "blastFurnaceRecipes",
      "machineId": "ebf",
      "recipes": [
        {
          "rid": "ebf-steel-1",
          "minTier": "MV",
          "durationTicks": 400,
          "eut": 120,
          "itemInputs": [
            {"id": "iron_dust", "meta": 0, "count": 1, "displayName": "Iron Dust"}
          ],
          "fluidInputs": [
            {"id": "oxygen", "mb": 1000, "displayName": "Oxygen"}
          ],
          "itemOutputs": [
            {"id": "steel_ingot", "meta": 0, "count": 1, "displayName": "Steel Ingot"},
            {"id": "ashes", "meta": 2, "count": 1, "chance": 0.25, "displayName": "Ashes"}
          ]
        }
      ]
    },
    {
      "displayName": "chemicalReactorRecipes",
      "machineId": "lcr",
      "recipes": [
        {"rid": "", "durationTicks": 10, "eut": 30},
        {
          "rid": "lcr-acid-1",
          "machineId": "lcr",
          "minTier": "HV",
          "durationTicks": 100,
          "eut": 480,
          "fluidOutputs": [{"id": "sulfuric_acid", "mb": 500, "displayName": "Sulfuric Acid"}]
        }
      ]
    }
  ]
}`

func TestParseRecipesJSON(t *testing.T) {
	recipes, names, err := ParseRecipesJSON([]byte(sampleExport))
	require.NoError(t, err)
	require.Len(t, recipes, 2, "empty rid entries are skipped")

	t.Run("recipe fields", func(t *testing.T) {
		r := recipes[0]
		assert.Equal(t, "ebf-steel-1", r.RID)
		assert.Equal(t, "ebf", r.MachineID)
		assert.Equal(t, "MV", r.MinTier)
		assert.Equal(t, 400, r.BaseDurationTicks)
		assert.Equal(t, int64(120), r.BaseEUT)
		require.Len(t, r.ItemInputs, 1)
		require.Len(t, r.FluidInputs, 1)
		require.Len(t, r.ItemOutputs, 2)
	})

	t.Run("chance outputs survive", func(t *testing.T) {
		ashes := recipes[0].ItemOutputs[1]
		assert.Equal(t, 2, ashes.Meta)
		require.NotNil(t, ashes.Chance)
		assert.Equal(t, 0.25, *ashes.Chance)
	})

	t.Run("display names are indexed", func(t *testing.T) {
		assert.Equal(t, "Steel Ingot", names.Items["item:steel_ingot:0"])
		assert.Equal(t, "Ashes", names.Items["item:ashes:2"])
		assert.Equal(t, "Oxygen", names.Fluids["fluid:oxygen:0"])
		assert.Equal(t, "Sulfuric Acid", names.Fluids["fluid:sulfuric_acid:0"])
	})

	t.Run("machine titles derive from map names", func(t *testing.T) {
		assert.Equal(t, "Electric Blast Furnace", names.Machines["ebf"])
		assert.Equal(t, "Chemical Reactor", names.Machines["lcr"])
		assert.Equal(t, "Electric Blast Furnace", recipes[0].MachineName)
	})

	t.Run("malformed json errors", func(t *testing.T) {
		_, _, err := ParseRecipesJSON([]byte("{"))
		assert.Error(t, err)
	})
}

func TestMachineTitle(t *testing.T) {
	assert.Equal(t, "Electric Blast Furnace", machineTitle("blastFurnaceRecipes"))
	assert.Equal(t, "Assembling Machine", machineTitle("assemblingMachineRecipes"))
	assert.Equal(t, "Vacuum Freezer", machineTitle("vacuum_freezerRecipes"))
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	snap, err := NewFileLoader(path, "2.7.4").Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "2.7.4", snap.Version())
	assert.Equal(t, 2, snap.RecipeCount())

	def, ok := snap.DefaultFor(domain.Item("steel_ingot", 0))
	require.True(t, ok)
	assert.Equal(t, "ebf-steel-1", def.RID)

	t.Run("missing file errors", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(dir, "nope.json"), "v").Load(nil)
		assert.Error(t, err)
	})
}
