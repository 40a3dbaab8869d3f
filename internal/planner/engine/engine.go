package engine

import (
	"fmt"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	cdomain "github.com/gtnh-tools/planner-backend/internal/catalog/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
)

const (
	// DefaultMaxDepth bounds primary resolution when the request passes 0.
	DefaultMaxDepth = 8
	// DefaultByproductChainDepth caps feedback-loop chain expansion.
	DefaultByproductChainDepth = 4
)

// Namer resolves display labels for material nodes. A catalog snapshot
// satisfies it; nil falls back to raw commodity ids.
type Namer interface {
	DisplayName(c cdomain.Commodity) string
}

// Engine is the recipe-chain resolution and throughput-balancing core. It is
// stateless across calls: every Plan builds its graph from scratch against
// whatever snapshot it is handed.
type Engine struct {
	cat        catalog.Catalog
	namer      Namer
	oc         *overclock.Model
	maxDepth   int
	chainDepth int
}

func New(cat catalog.Catalog, namer Namer, oc *overclock.Model, defaultMaxDepth, byproductChainDepth int) *Engine {
	if defaultMaxDepth <= 0 {
		defaultMaxDepth = DefaultMaxDepth
	}
	if byproductChainDepth <= 0 {
		byproductChainDepth = DefaultByproductChainDepth
	}
	return &Engine{
		cat:        cat,
		namer:      namer,
		oc:         oc,
		maxDepth:   defaultMaxDepth,
		chainDepth: byproductChainDepth,
	}
}

// Plan resolves a request into a dimensioned production graph. Fatal errors
// return a nil graph; non-fatal conditions surface as meta warnings.
func (e *Engine) Plan(req *domain.PlanRequest) (*domain.PlanGraph, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = e.maxDepth
	}

	r := &resolution{
		cat:        e.cat,
		namer:      e.namer,
		oc:         e.oc,
		req:        req,
		chainDepth: e.chainDepth,
		materials:  map[string]*materialState{},
		nodes:      map[string]*recipeState{},
		edges:      map[string]*edgeState{},
	}

	for _, t := range req.Targets {
		c, err := t.Commodity()
		if err != nil {
			return nil, err
		}
		rate, err := r.targetRate(t, c)
		if err != nil {
			return nil, err
		}
		if err := r.resolve(c, rate, c.Key(), 0, maxDepth, true); err != nil {
			return nil, err
		}
		r.material(c).targetRate += rate
	}

	if err := r.applyLoops(); err != nil {
		return nil, err
	}
	r.balance()

	return r.assemble(), nil
}

// targetRate turns a target into a demanded rate per second. A machine-count
// target derives its rate from the selected recipe's per-machine rate.
func (r *resolution) targetRate(t domain.Target, c cdomain.Commodity) (float64, error) {
	if t.TargetRatePerS > 0 {
		return t.TargetRatePerS, nil
	}

	recipe, err := r.selectRecipe(c, c.Key())
	if err != nil {
		return 0, err
	}
	if recipe == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrNoRecipeForTarget, c.Key())
	}

	_, effDuration, _ := r.timing(recipe)
	out, _ := recipe.OutputFor(c)
	amount := out.Amount
	if out.Chance != nil {
		amount *= *out.Chance
	}
	perMachineRate := overclock.RatePerSecond(amount, effDuration)
	if perMachineRate <= 0 {
		return 0, fmt.Errorf("%w: %s yields no %s per second", domain.ErrDegenerateRecipe, recipe.RID, c.Key())
	}
	return float64(t.TargetMachineCount) * perMachineRate, nil
}

func (e *Engine) validate(req *domain.PlanRequest) error {
	if req == nil || len(req.Targets) == 0 {
		return fmt.Errorf("%w: at least one target is required", domain.ErrValidation)
	}
	if req.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must be >= 0", domain.ErrValidation)
	}

	for i, t := range req.Targets {
		if _, err := t.Commodity(); err != nil {
			return err
		}
		if t.TargetRatePerS <= 0 && t.TargetMachineCount <= 0 {
			return fmt.Errorf("%w: target %d needs target_rate_per_s or target_machine_count", domain.ErrValidation, i)
		}
		if t.TargetRatePerS < 0 {
			return fmt.Errorf("%w: target %d has negative rate", domain.ErrValidation, i)
		}
	}

	for rid, tiers := range req.RecipeOverclockTiers {
		if tiers < 0 {
			return fmt.Errorf("%w: recipe_overclock_tiers[%s] must be >= 0", domain.ErrValidation, rid)
		}
		if _, ok := e.cat.LookupByRid(rid); !ok {
			return fmt.Errorf("%w: recipe_overclock_tiers references unknown rid %q", domain.ErrValidation, rid)
		}
	}

	for key, count := range req.MachineCountOverrides {
		if count < 0 {
			return fmt.Errorf("%w: machine_count_overrides[%s] must be >= 0", domain.ErrValidation, key)
		}
	}

	for key, rid := range req.RecipeOverride {
		if rid == "" {
			return fmt.Errorf("%w: recipe_override[%s] is empty", domain.ErrValidation, key)
		}
		if _, ok := e.cat.LookupByRid(rid); !ok {
			return fmt.Errorf("%w: recipe_override[%s] references unknown rid %q", domain.ErrValidation, key, rid)
		}
	}

	for _, loop := range req.ByproductTargets {
		if _, err := loop.InputCommodity(); err != nil {
			return err
		}
		if _, err := loop.OutputCommodity(); err != nil {
			return err
		}
		if loop.RecipeRID == "" {
			return fmt.Errorf("%w: byproduct loop without recipe_rid", domain.ErrValidation)
		}
		if _, ok := e.cat.LookupByRid(loop.RecipeRID); !ok {
			return fmt.Errorf("%w: byproduct loop references unknown rid %q", domain.ErrValidation, loop.RecipeRID)
		}
	}

	return nil
}
