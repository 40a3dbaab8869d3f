package domain

import (
	"fmt"

	catalogdomain "github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

// Target is one demanded output. Either TargetRatePerS or TargetMachineCount
// drives the demand; when a machine count is given the rate is derived from
// the selected recipe's per-machine rate.
type Target struct {
	TargetType         string  `json:"target_type"` // item | fluid
	TargetID           string  `json:"target_id"`
	TargetMeta         int     `json:"target_meta,omitempty"`
	TargetRatePerS     float64 `json:"target_rate_per_s,omitempty"`
	TargetMachineCount int     `json:"target_machine_count,omitempty"`
}

// Commodity resolves the target's commodity identity.
func (t Target) Commodity() (catalogdomain.Commodity, error) {
	switch t.TargetType {
	case "item":
		c := catalogdomain.Item(t.TargetID, t.TargetMeta)
		if !c.IsValid() {
			return catalogdomain.Commodity{}, fmt.Errorf("%w: invalid item target %q", ErrValidation, t.TargetID)
		}
		return c, nil
	case "fluid":
		if t.TargetMeta != 0 {
			return catalogdomain.Commodity{}, fmt.Errorf("%w: fluid target %q with nonzero meta", ErrValidation, t.TargetID)
		}
		c := catalogdomain.Fluid(t.TargetID)
		if !c.IsValid() {
			return catalogdomain.Commodity{}, fmt.Errorf("%w: invalid fluid target %q", ErrValidation, t.TargetID)
		}
		return c, nil
	default:
		return catalogdomain.Commodity{}, fmt.Errorf("%w: unknown target_type %q", ErrValidation, t.TargetType)
	}
}

// ByproductLoop routes a secondary output back in as another recipe's input.
type ByproductLoop struct {
	InputType  string `json:"input_type"`
	InputID    string `json:"input_id"`
	InputMeta  int    `json:"input_meta,omitempty"`
	OutputType string `json:"output_type"`
	OutputID   string `json:"output_id"`
	OutputMeta int    `json:"output_meta,omitempty"`
	RecipeRID  string `json:"recipe_rid"`
}

func (b ByproductLoop) InputCommodity() (catalogdomain.Commodity, error) {
	return commodityOf(b.InputType, b.InputID, b.InputMeta)
}

func (b ByproductLoop) OutputCommodity() (catalogdomain.Commodity, error) {
	return commodityOf(b.OutputType, b.OutputID, b.OutputMeta)
}

func commodityOf(kind, id string, meta int) (catalogdomain.Commodity, error) {
	switch kind {
	case "item":
		c := catalogdomain.Item(id, meta)
		if !c.IsValid() {
			return catalogdomain.Commodity{}, fmt.Errorf("%w: invalid item %q", ErrValidation, id)
		}
		return c, nil
	case "fluid":
		if meta != 0 {
			return catalogdomain.Commodity{}, fmt.Errorf("%w: fluid %q with nonzero meta", ErrValidation, id)
		}
		c := catalogdomain.Fluid(id)
		if !c.IsValid() {
			return catalogdomain.Commodity{}, fmt.Errorf("%w: invalid fluid %q", ErrValidation, id)
		}
		return c, nil
	default:
		return catalogdomain.Commodity{}, fmt.Errorf("%w: unknown commodity kind %q", ErrValidation, kind)
	}
}

// PlanRequest is one stateless planning call over the current snapshot.
type PlanRequest struct {
	Targets               []Target          `json:"targets"`
	RecipeOverride        map[string]string `json:"recipe_override,omitempty"`        // output_key -> rid
	RecipeOverclockTiers  map[string]int    `json:"recipe_overclock_tiers,omitempty"` // rid -> tiers above min
	MachineCountOverrides map[string]int    `json:"machine_count_overrides,omitempty"`
	ByproductTargets      []ByproductLoop   `json:"byproduct_targets,omitempty"`
	MaxDepth              int               `json:"max_depth,omitempty"` // 0 = engine default
}

// Node is one graph node in the response. Material nodes carry the item/fluid
// fields, recipe nodes the machine and timing fields.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // item | fluid | recipe
	Label string `json:"label"`

	ItemID  string `json:"item_id,omitempty"`
	Meta    *int   `json:"meta,omitempty"`
	FluidID string `json:"fluid_id,omitempty"`

	RID               string   `json:"rid,omitempty"`
	OutputKey         string   `json:"output_key,omitempty"`
	MachineID         string   `json:"machine_id,omitempty"`
	MachineName       string   `json:"machine_name,omitempty"`
	MachinesRequired  *int     `json:"machines_required,omitempty"`
	MachinesDemand    *float64 `json:"machines_demand,omitempty"`
	PerMachineRate    *float64 `json:"per_machine_rate_per_s,omitempty"`
	MinTier           string   `json:"min_tier,omitempty"`
	BaseDurationTicks *int     `json:"base_duration_ticks,omitempty"`
	BaseEUT           *int64   `json:"base_eut,omitempty"`
	DurationTicks     *int     `json:"duration_ticks,omitempty"`
	EUT               *float64 `json:"eut,omitempty"`
	OverclockTiers    *int     `json:"overclock_tiers,omitempty"`
	Utilization       *float64 `json:"utilization,omitempty"`
	TargetRatePerS    *float64 `json:"target_rate_per_s,omitempty"`
	ByproductInputKey string   `json:"byproduct_input_key,omitempty"`
}

type Edge struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"` // consumes | produces | byproduct
	RatePerS float64 `json:"rate_per_s"`
}

// Warning is one non-fatal diagnostic: a dropped loop, a truncated branch.
type Warning struct {
	Code    string `json:"code"` // depth_exceeded | byproduct_loop_dropped
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

type Meta struct {
	SnapshotVersion string    `json:"snapshot_version,omitempty"`
	Warnings        []Warning `json:"warnings,omitempty"`
}

// PlanGraph is the full response payload.
type PlanGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Meta  Meta   `json:"meta"`
}
