package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

// RecipeStore persists recipe snapshots in Postgres, one row per recipe and
// per ingredient, mirroring the columnar export layout.
type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Load implements catalog.Loader by reading the whole recipe set.
func (s *RecipeStore) Load(ctx context.Context) (*catalog.Snapshot, error) {
	version, err := s.loadVersion(ctx)
	if err != nil {
		return nil, err
	}

	recipes, err := s.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.loadNames(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Build(version, recipes, names), nil
}

func (s *RecipeStore) loadVersion(ctx context.Context) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM catalog_meta WHERE key = 'version'`,
	).Scan(&version)
	if err == sql.ErrNoRows {
		return "unversioned", nil
	}
	if err != nil {
		return "", fmt.Errorf("load catalog version: %w", err)
	}
	return version, nil
}

func (s *RecipeStore) loadRecipes(ctx context.Context) ([]*domain.RecipeDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rid, machine_id, COALESCE(min_tier, ''), duration_ticks, eut FROM recipes`,
	)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	defer rows.Close()

	byRid := map[string]*domain.RecipeDefinition{}
	var recipes []*domain.RecipeDefinition
	for rows.Next() {
		r := &domain.RecipeDefinition{}
		if err := rows.Scan(&r.RID, &r.MachineID, &r.MinTier, &r.BaseDurationTicks, &r.BaseEUT); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		byRid[r.RID] = r
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	if err := s.loadItemInputs(ctx, byRid); err != nil {
		return nil, err
	}
	if err := s.loadItemOutputs(ctx, byRid); err != nil {
		return nil, err
	}
	if err := s.loadFluidInputs(ctx, byRid); err != nil {
		return nil, err
	}
	if err := s.loadFluidOutputs(ctx, byRid); err != nil {
		return nil, err
	}

	return recipes, nil
}

func (s *RecipeStore) loadItemInputs(ctx context.Context, byRid map[string]*domain.RecipeDefinition) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rid, item_id, meta, count FROM recipe_item_inputs`,
	)
	if err != nil {
		return fmt.Errorf("load item inputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rid string
		var stack domain.ItemStack
		if err := rows.Scan(&rid, &stack.ID, &stack.Meta, &stack.Count); err != nil {
			return fmt.Errorf("scan item input: %w", err)
		}
		if r, ok := byRid[rid]; ok {
			r.ItemInputs = append(r.ItemInputs, stack)
		}
	}
	return rows.Err()
}

func (s *RecipeStore) loadItemOutputs(ctx context.Context, byRid map[string]*domain.RecipeDefinition) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rid, item_id, meta, count, chance FROM recipe_item_outputs`,
	)
	if err != nil {
		return fmt.Errorf("load item outputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rid string
		var out domain.ItemOutput
		var chance sql.NullFloat64
		if err := rows.Scan(&rid, &out.ID, &out.Meta, &out.Count, &chance); err != nil {
			return fmt.Errorf("scan item output: %w", err)
		}
		if chance.Valid {
			out.Chance = &chance.Float64
		}
		if r, ok := byRid[rid]; ok {
			r.ItemOutputs = append(r.ItemOutputs, out)
		}
	}
	return rows.Err()
}

func (s *RecipeStore) loadFluidInputs(ctx context.Context, byRid map[string]*domain.RecipeDefinition) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rid, fluid_id, mb FROM recipe_fluid_inputs`,
	)
	if err != nil {
		return fmt.Errorf("load fluid inputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rid string
		var stack domain.FluidStack
		if err := rows.Scan(&rid, &stack.ID, &stack.MB); err != nil {
			return fmt.Errorf("scan fluid input: %w", err)
		}
		if r, ok := byRid[rid]; ok {
			r.FluidInputs = append(r.FluidInputs, stack)
		}
	}
	return rows.Err()
}

func (s *RecipeStore) loadFluidOutputs(ctx context.Context, byRid map[string]*domain.RecipeDefinition) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rid, fluid_id, mb, chance FROM recipe_fluid_outputs`,
	)
	if err != nil {
		return fmt.Errorf("load fluid outputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rid string
		var out domain.FluidOutput
		var chance sql.NullFloat64
		if err := rows.Scan(&rid, &out.ID, &out.MB, &chance); err != nil {
			return fmt.Errorf("scan fluid output: %w", err)
		}
		if chance.Valid {
			out.Chance = &chance.Float64
		}
		if r, ok := byRid[rid]; ok {
			r.FluidOutputs = append(r.FluidOutputs, out)
		}
	}
	return rows.Err()
}

func (s *RecipeStore) loadNames(ctx context.Context) (catalog.Names, error) {
	names := catalog.Names{
		Items:    map[string]string{},
		Fluids:   map[string]string{},
		Machines: map[string]string{},
	}

	rows, err := s.db.QueryContext(ctx, `SELECT item_id, meta, display_name FROM item_names`)
	if err != nil {
		return names, fmt.Errorf("load item names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		var meta int
		if err := rows.Scan(&id, &meta, &name); err != nil {
			return names, fmt.Errorf("scan item name: %w", err)
		}
		names.Items[domain.Item(id, meta).Key()] = name
	}
	if err := rows.Err(); err != nil {
		return names, err
	}

	fluidRows, err := s.db.QueryContext(ctx, `SELECT fluid_id, display_name FROM fluid_names`)
	if err != nil {
		return names, fmt.Errorf("load fluid names: %w", err)
	}
	defer fluidRows.Close()
	for fluidRows.Next() {
		var id, name string
		if err := fluidRows.Scan(&id, &name); err != nil {
			return names, fmt.Errorf("scan fluid name: %w", err)
		}
		names.Fluids[domain.Fluid(id).Key()] = name
	}
	if err := fluidRows.Err(); err != nil {
		return names, err
	}

	machineRows, err := s.db.QueryContext(ctx, `SELECT machine_id, display_name FROM machine_names`)
	if err != nil {
		return names, fmt.Errorf("load machine names: %w", err)
	}
	defer machineRows.Close()
	for machineRows.Next() {
		var id, name string
		if err := machineRows.Scan(&id, &name); err != nil {
			return names, fmt.Errorf("scan machine name: %w", err)
		}
		names.Machines[id] = name
	}
	return names, machineRows.Err()
}

// Import replaces the stored snapshot with a parsed recipe export inside a
// single transaction, so readers either see the old set or the new one.
func (s *RecipeStore) Import(ctx context.Context, version string, recipes []*domain.RecipeDefinition, names catalog.Names) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"recipe_item_inputs", "recipe_item_outputs",
		"recipe_fluid_inputs", "recipe_fluid_outputs",
		"recipes", "item_names", "fluid_names", "machine_names",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, r := range recipes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (rid, machine_id, min_tier, duration_ticks, eut) VALUES ($1, $2, $3, $4, $5)`,
			r.RID, r.MachineID, nullIfEmpty(r.MinTier), r.BaseDurationTicks, r.BaseEUT,
		); err != nil {
			return fmt.Errorf("insert recipe %s: %w", r.RID, err)
		}
		for _, in := range r.ItemInputs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_item_inputs (rid, item_id, meta, count) VALUES ($1, $2, $3, $4)`,
				r.RID, in.ID, in.Meta, in.Count,
			); err != nil {
				return fmt.Errorf("insert item input for %s: %w", r.RID, err)
			}
		}
		for _, out := range r.ItemOutputs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_item_outputs (rid, item_id, meta, count, chance) VALUES ($1, $2, $3, $4, $5)`,
				r.RID, out.ID, out.Meta, out.Count, out.Chance,
			); err != nil {
				return fmt.Errorf("insert item output for %s: %w", r.RID, err)
			}
		}
		for _, in := range r.FluidInputs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_fluid_inputs (rid, fluid_id, mb) VALUES ($1, $2, $3)`,
				r.RID, in.ID, in.MB,
			); err != nil {
				return fmt.Errorf("insert fluid input for %s: %w", r.RID, err)
			}
		}
		for _, out := range r.FluidOutputs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_fluid_outputs (rid, fluid_id, mb, chance) VALUES ($1, $2, $3, $4)`,
				r.RID, out.ID, out.MB, out.Chance,
			); err != nil {
				return fmt.Errorf("insert fluid output for %s: %w", r.RID, err)
			}
		}
	}

	for key, name := range names.Items {
		var c domain.Commodity
		if !parseKey(key, &c) {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_names (item_id, meta, display_name) VALUES ($1, $2, $3) ON CONFLICT (item_id, meta) DO UPDATE SET display_name = EXCLUDED.display_name`,
			c.ID, c.Meta, name,
		); err != nil {
			return fmt.Errorf("insert item name: %w", err)
		}
	}
	for key, name := range names.Fluids {
		var c domain.Commodity
		if !parseKey(key, &c) {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fluid_names (fluid_id, display_name) VALUES ($1, $2) ON CONFLICT (fluid_id) DO UPDATE SET display_name = EXCLUDED.display_name`,
			c.ID, name,
		); err != nil {
			return fmt.Errorf("insert fluid name: %w", err)
		}
	}
	for id, name := range names.Machines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO machine_names (machine_id, display_name) VALUES ($1, $2) ON CONFLICT (machine_id) DO UPDATE SET display_name = EXCLUDED.display_name`,
			id, name,
		); err != nil {
			return fmt.Errorf("insert machine name: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_meta (key, value) VALUES ('version', $1) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		version,
	); err != nil {
		return fmt.Errorf("set catalog version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseKey(key string, c *domain.Commodity) bool {
	parsed, err := domain.ParseKey(key)
	if err != nil {
		return false
	}
	*c = parsed
	return true
}
