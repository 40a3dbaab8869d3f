package engine

import (
	"fmt"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	cdomain "github.com/gtnh-tools/planner-backend/internal/catalog/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
)

// materialState is the working record behind one material node.
type materialState struct {
	commodity   cdomain.Commodity
	demand      float64 // summed demanded rate per second
	supply      float64 // summed achieved rate, filled in by balance
	targetRate  float64 // nonzero when this material is a request target
	hasProducer bool
}

// recipeState is the working record behind one recipe node. Nodes are keyed
// by (rid, output key): the same rid in two branches gets two states.
type recipeState struct {
	outputKey string
	recipe    *cdomain.RecipeDefinition
	demanded  cdomain.Commodity // the commodity that pulled this node in

	tiers          int
	effDuration    int
	effEUT         float64
	perMachineRate float64

	machinesDemand   float64
	machinesRequired int

	byproductInputKey string
	utilization       float64
}

func (n *recipeState) id() string {
	return "recipe:" + n.recipe.RID + "@" + n.outputKey
}

const (
	edgeConsumes  = "consumes"
	edgeProduces  = "produces"
	edgeByproduct = "byproduct"
)

// edgeState links one material and one recipe node. Consumes edges run
// material -> recipe and carry demand; produces and byproduct edges run
// recipe -> material and are rewritten to achieved supply after balancing.
type edgeState struct {
	kind     string
	material *materialState
	node     *recipeState
	rate     float64
}

// resolution is the per-request working set. Everything here is rebuilt from
// scratch each call; nothing outlives Plan.
type resolution struct {
	cat   catalog.Catalog
	namer Namer
	oc    *overclock.Model
	req   *domain.PlanRequest

	chainDepth int

	materials map[string]*materialState
	nodes     map[string]*recipeState
	nodeOrder []*recipeState
	edges     map[string]*edgeState
	edgeOrder []*edgeState
	warnings  []domain.Warning
}

func (r *resolution) material(c cdomain.Commodity) *materialState {
	key := c.Key()
	if m, ok := r.materials[key]; ok {
		return m
	}
	m := &materialState{commodity: c}
	r.materials[key] = m
	return m
}

func (r *resolution) edge(kind string, m *materialState, n *recipeState) *edgeState {
	key := kind + ":" + m.commodity.Key() + "@" + n.id()
	if e, ok := r.edges[key]; ok {
		return e
	}
	e := &edgeState{kind: kind, material: m, node: n}
	r.edges[key] = e
	r.edgeOrder = append(r.edgeOrder, e)
	return e
}

func (r *resolution) warn(code, message, key string) {
	r.warnings = append(r.warnings, domain.Warning{Code: code, Message: message, Key: key})
}

// selectRecipe picks the producing recipe for commodity c at context key:
// the explicit override when present, otherwise the cheapest candidate by
// energy per cycle with ties broken by ascending rid. Returns nil when no
// recipe produces c and no override names one.
func (r *resolution) selectRecipe(c cdomain.Commodity, key string) (*cdomain.RecipeDefinition, error) {
	if rid, ok := r.req.RecipeOverride[key]; ok {
		recipe, found := r.cat.LookupByRid(rid)
		if !found {
			return nil, fmt.Errorf("%w: recipe_override[%s] references unknown rid %q", domain.ErrValidation, key, rid)
		}
		if _, produces := recipe.OutputFor(c); !produces {
			return nil, fmt.Errorf("%w: recipe %q does not produce %s", domain.ErrInvalidOverride, rid, c.Key())
		}
		return recipe, nil
	}

	candidates := r.cat.LookupByOutput(c)
	if len(candidates) == 0 {
		return nil, nil
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		be, ce := best.EnergyPerCycle(), cand.EnergyPerCycle()
		if ce < be || (ce == be && cand.RID < best.RID) {
			best = cand
		}
	}
	return best, nil
}

// timing resolves the overclock state for a recipe under the request's tier
// selections. An unknown minimum tier disables overclocking entirely.
func (r *resolution) timing(recipe *cdomain.RecipeDefinition) (tiers, effDuration int, effEUT float64) {
	tiers = r.req.RecipeOverclockTiers[recipe.RID]
	if tiers < 0 || overclock.TierIndex(recipe.MinTier) < 0 {
		tiers = 0
	}
	effDuration, effEUT = r.oc.Apply(recipe.BaseDurationTicks, recipe.BaseEUT, tiers)
	return tiers, effDuration, effEUT
}

// resolve expands demand for commodity c at rate per second under context
// key, recursing into the selected recipe's inputs. topLevel marks a request
// target, where an unresolvable commodity is fatal rather than a raw leaf.
func (r *resolution) resolve(c cdomain.Commodity, rate float64, key string, depth, maxDepth int, topLevel bool) error {
	m := r.material(c)
	m.demand += rate

	if depth >= maxDepth {
		r.warn("depth_exceeded", fmt.Sprintf("resolution truncated at depth %d for %s", depth, c.Key()), c.Key())
		return nil
	}

	recipe, err := r.selectRecipe(c, key)
	if err != nil {
		return err
	}
	if recipe == nil {
		if topLevel {
			return fmt.Errorf("%w: %s", domain.ErrNoRecipeForTarget, c.Key())
		}
		return nil // raw material leaf
	}

	tiers, effDuration, effEUT := r.timing(recipe)

	out, _ := recipe.OutputFor(c)
	amount := out.Amount
	if out.Chance != nil {
		amount *= *out.Chance
	}
	perMachineRate := overclock.RatePerSecond(amount, effDuration)
	if perMachineRate <= 0 {
		return fmt.Errorf("%w: %s yields no %s per second", domain.ErrDegenerateRecipe, recipe.RID, c.Key())
	}

	nodeKey := recipe.RID + "@" + key
	node, ok := r.nodes[nodeKey]
	if !ok {
		node = &recipeState{
			outputKey:      key,
			recipe:         recipe,
			demanded:       c,
			tiers:          tiers,
			effDuration:    effDuration,
			effEUT:         effEUT,
			perMachineRate: perMachineRate,
		}
		r.nodes[nodeKey] = node
		r.nodeOrder = append(r.nodeOrder, node)
	}

	delta := rate / perMachineRate
	node.machinesDemand += delta

	m.hasProducer = true
	produced := r.edge(edgeProduces, m, node)
	produced.rate += rate

	for _, outFlow := range recipe.Outputs() {
		if outFlow.Commodity.Key() == c.Key() {
			continue
		}
		byMat := r.material(outFlow.Commodity)
		byMat.hasProducer = true
		byAmount := outFlow.Amount
		if outFlow.Chance != nil {
			byAmount *= *outFlow.Chance
		}
		by := r.edge(edgeByproduct, byMat, node)
		by.rate += delta * overclock.RatePerSecond(byAmount, effDuration)
	}

	for _, in := range recipe.Inputs() {
		required := delta * overclock.RatePerSecond(in.Amount, effDuration)
		inMat := r.material(in.Commodity)
		consumed := r.edge(edgeConsumes, inMat, node)
		consumed.rate += required

		if in.Commodity.Key() == c.Key() {
			// Self-referential input: account the demand, never recurse.
			inMat.demand += required
			continue
		}
		childKey := key + "/" + in.Commodity.Key()
		if err := r.resolve(in.Commodity, required, childKey, depth+1, maxDepth, false); err != nil {
			return err
		}
	}

	return nil
}
