package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

func TestRecipeStore_Load(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM catalog_meta`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2.7.4"))

	mock.ExpectQuery(`SELECT rid, machine_id, COALESCE\(min_tier, ''\), duration_ticks, eut FROM recipes`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "machine_id", "min_tier", "duration_ticks", "eut"}).
			AddRow("r1", "furnace", "LV", 100, 16).
			AddRow("r2", "ebf", "HV", 400, 480))

	mock.ExpectQuery(`SELECT rid, item_id, meta, count FROM recipe_item_inputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "item_id", "meta", "count"}).
			AddRow("r1", "ore", 0, 1))

	mock.ExpectQuery(`SELECT rid, item_id, meta, count, chance FROM recipe_item_outputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "item_id", "meta", "count", "chance"}).
			AddRow("r1", "ingot", 0, 1, nil).
			AddRow("r2", "ashes", 2, 1, 0.25))

	mock.ExpectQuery(`SELECT rid, fluid_id, mb FROM recipe_fluid_inputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "fluid_id", "mb"}).
			AddRow("r2", "oxygen", 1000))

	mock.ExpectQuery(`SELECT rid, fluid_id, mb, chance FROM recipe_fluid_outputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "fluid_id", "mb", "chance"}))

	mock.ExpectQuery(`SELECT item_id, meta, display_name FROM item_names`).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "meta", "display_name"}).
			AddRow("ingot", 0, "Iron Ingot"))

	mock.ExpectQuery(`SELECT fluid_id, display_name FROM fluid_names`).
		WillReturnRows(sqlmock.NewRows([]string{"fluid_id", "display_name"}).
			AddRow("oxygen", "Oxygen"))

	mock.ExpectQuery(`SELECT machine_id, display_name FROM machine_names`).
		WillReturnRows(sqlmock.NewRows([]string{"machine_id", "display_name"}).
			AddRow("furnace", "Electric Furnace"))

	store := NewRecipeStore(db)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "2.7.4", snap.Version())
	assert.Equal(t, 2, snap.RecipeCount())

	r1, ok := snap.LookupByRid("r1")
	require.True(t, ok)
	assert.Equal(t, "Electric Furnace", r1.MachineName)
	require.Len(t, r1.ItemInputs, 1)
	require.Len(t, r1.ItemOutputs, 1)
	assert.Nil(t, r1.ItemOutputs[0].Chance)

	r2, ok := snap.LookupByRid("r2")
	require.True(t, ok)
	require.Len(t, r2.FluidInputs, 1)
	require.Len(t, r2.ItemOutputs, 1)
	require.NotNil(t, r2.ItemOutputs[0].Chance)
	assert.Equal(t, 0.25, *r2.ItemOutputs[0].Chance)

	assert.Equal(t, "Iron Ingot", snap.DisplayName(domain.Item("ingot", 0)))
	assert.Equal(t, "Oxygen", snap.DisplayName(domain.Fluid("oxygen")))
}

func TestRecipeStore_LoadDefaultsVersion(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM catalog_meta`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectQuery(`SELECT rid, machine_id`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "machine_id", "min_tier", "duration_ticks", "eut"}))
	mock.ExpectQuery(`FROM recipe_item_inputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "item_id", "meta", "count"}))
	mock.ExpectQuery(`FROM recipe_item_outputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "item_id", "meta", "count", "chance"}))
	mock.ExpectQuery(`FROM recipe_fluid_inputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "fluid_id", "mb"}))
	mock.ExpectQuery(`FROM recipe_fluid_outputs`).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "fluid_id", "mb", "chance"}))
	mock.ExpectQuery(`FROM item_names`).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "meta", "display_name"}))
	mock.ExpectQuery(`FROM fluid_names`).
		WillReturnRows(sqlmock.NewRows([]string{"fluid_id", "display_name"}))
	mock.ExpectQuery(`FROM machine_names`).
		WillReturnRows(sqlmock.NewRows([]string{"machine_id", "display_name"}))

	snap, err := NewRecipeStore(db).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unversioned", snap.Version())
	assert.Equal(t, 0, snap.RecipeCount())
}

func TestRecipeStore_ImportWritesInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	chance := 0.5
	recipes := []*domain.RecipeDefinition{
		{
			RID: "r1", MachineID: "furnace", MinTier: "LV", BaseDurationTicks: 100, BaseEUT: 16,
			ItemInputs:   []domain.ItemStack{{ID: "ore", Count: 1}},
			ItemOutputs:  []domain.ItemOutput{{ID: "ingot", Count: 1, Chance: &chance}},
			FluidInputs:  []domain.FluidStack{{ID: "water", MB: 500}},
			FluidOutputs: []domain.FluidOutput{{ID: "steam", MB: 100}},
		},
	}
	mock.ExpectBegin()
	for range []string{"recipe_item_inputs", "recipe_item_outputs", "recipe_fluid_inputs", "recipe_fluid_outputs", "recipes", "item_names", "fluid_names", "machine_names"} {
		mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`INSERT INTO recipes`).
		WithArgs("r1", "furnace", "LV", 100, int64(16)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO recipe_item_inputs`).
		WithArgs("r1", "ore", 0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO recipe_item_outputs`).
		WithArgs("r1", "ingot", 0, 1, 0.5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO recipe_fluid_inputs`).
		WithArgs("r1", "water", 500).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO recipe_fluid_outputs`).
		WithArgs("r1", "steam", 100, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO item_names`).
		WithArgs("ingot", 0, "Iron Ingot").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO catalog_meta`).
		WithArgs("2.7.4").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewRecipeStore(db)
	err = store.Import(context.Background(), "2.7.4", recipes, catalog.Names{
		Items: map[string]string{"item:ingot:0": "Iron Ingot"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
