package engine

import (
	"fmt"

	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
)

// applyLoops runs the byproduct feedback pass. Each loop applies at most
// once; loops whose byproduct supply only appears after another loop has run
// get picked up on a later pass, bounded by the chain depth.
func (r *resolution) applyLoops() error {
	if len(r.req.ByproductTargets) == 0 {
		return nil
	}

	handled := make([]bool, len(r.req.ByproductTargets))
	for pass := 0; pass < r.chainDepth; pass++ {
		progressed := false
		for i, loop := range r.req.ByproductTargets {
			if handled[i] {
				continue
			}
			done, err := r.applyLoop(loop)
			if err != nil {
				return err
			}
			if done {
				handled[i] = true
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	for i, loop := range r.req.ByproductTargets {
		if !handled[i] {
			r.warn("byproduct_loop_dropped",
				fmt.Sprintf("no byproduct supply of %s:%s for recipe %s", loop.InputType, loop.InputID, loop.RecipeRID),
				loop.RecipeRID)
		}
	}
	return nil
}

// applyLoop expands one feedback loop on top of the primary tree. It reports
// whether the loop was consumed (applied or dropped with a warning); false
// means the loop is waiting on byproduct supply that does not exist yet.
func (r *resolution) applyLoop(loop domain.ByproductLoop) (bool, error) {
	inC, err := loop.InputCommodity()
	if err != nil {
		return false, err
	}
	outC, err := loop.OutputCommodity()
	if err != nil {
		return false, err
	}

	recipe, found := r.cat.LookupByRid(loop.RecipeRID)
	if !found {
		return false, fmt.Errorf("%w: byproduct loop references unknown rid %q", domain.ErrValidation, loop.RecipeRID)
	}

	inFlow, consumes := recipe.InputFor(inC)
	if !consumes {
		r.warn("byproduct_loop_dropped",
			fmt.Sprintf("recipe %s does not consume %s", recipe.RID, inC.Key()), recipe.RID)
		return true, nil
	}
	outFlow, produces := recipe.OutputFor(outC)
	if !produces {
		r.warn("byproduct_loop_dropped",
			fmt.Sprintf("recipe %s does not produce %s", recipe.RID, outC.Key()), recipe.RID)
		return true, nil
	}

	inMat := r.material(inC)
	supply := 0.0
	for _, e := range r.edgeOrder {
		if e.kind == edgeByproduct && e.material == inMat {
			supply += e.rate
		}
	}
	if supply <= 0 {
		return false, nil
	}

	tiers, effDuration, effEUT := r.timing(recipe)

	perMachineInput := overclock.RatePerSecond(inFlow.Amount, effDuration)
	if perMachineInput <= 0 {
		r.warn("byproduct_loop_dropped",
			fmt.Sprintf("recipe %s consumes no %s per second", recipe.RID, inC.Key()), recipe.RID)
		return true, nil
	}

	outAmount := outFlow.Amount
	if outFlow.Chance != nil {
		outAmount *= *outFlow.Chance
	}
	perMachineRate := overclock.RatePerSecond(outAmount, effDuration)
	if perMachineRate <= 0 {
		return false, fmt.Errorf("%w: %s yields no %s per second", domain.ErrDegenerateRecipe, recipe.RID, outC.Key())
	}

	// The loop node sizes itself to swallow the whole byproduct supply. Its
	// key is prefixed so it never collides with a primary-resolution node.
	key := "byproduct:" + outC.Key()
	nodeKey := recipe.RID + "@" + key
	node, ok := r.nodes[nodeKey]
	if !ok {
		node = &recipeState{
			outputKey:      key,
			recipe:         recipe,
			demanded:       outC,
			tiers:          tiers,
			effDuration:    effDuration,
			effEUT:         effEUT,
			perMachineRate: perMachineRate,
		}
		r.nodes[nodeKey] = node
		r.nodeOrder = append(r.nodeOrder, node)
	}
	node.byproductInputKey = inC.Key()

	delta := supply / perMachineInput
	node.machinesDemand += delta

	consumed := r.edge(edgeConsumes, inMat, node)
	consumed.rate += supply
	inMat.demand += supply

	outMat := r.material(outC)
	outMat.hasProducer = true
	produced := r.edge(edgeProduces, outMat, node)
	produced.rate += delta * perMachineRate

	for _, outOther := range recipe.Outputs() {
		if outOther.Commodity.Key() == outC.Key() {
			continue
		}
		byMat := r.material(outOther.Commodity)
		byMat.hasProducer = true
		byAmount := outOther.Amount
		if outOther.Chance != nil {
			byAmount *= *outOther.Chance
		}
		by := r.edge(edgeByproduct, byMat, node)
		by.rate += delta * overclock.RatePerSecond(byAmount, effDuration)
	}

	for _, in := range recipe.Inputs() {
		if in.Commodity.Key() == inC.Key() {
			continue
		}
		required := delta * overclock.RatePerSecond(in.Amount, effDuration)
		mat := r.material(in.Commodity)
		edge := r.edge(edgeConsumes, mat, node)
		edge.rate += required

		if in.Commodity.Key() == outC.Key() {
			mat.demand += required
			continue
		}
		childKey := key + "/" + in.Commodity.Key()
		if err := r.resolve(in.Commodity, required, childKey, 1, r.chainDepth, false); err != nil {
			return false, err
		}
	}

	return true, nil
}
