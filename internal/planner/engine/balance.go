package engine

import (
	"math"

	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
)

// balance turns continuous machine demand into integer machine counts,
// rewrites supply-side edges to the rates those counts actually achieve, and
// computes per-node utilization.
func (r *resolution) balance() {
	for _, n := range r.nodeOrder {
		if count, ok := r.req.MachineCountOverrides[n.outputKey]; ok {
			n.machinesRequired = count
		} else {
			n.machinesRequired = int(math.Ceil(n.machinesDemand))
		}
	}

	// Produces and byproduct edges report achieved supply, consumes edges keep
	// propagated demand. Shortages show up as supply < demand on the same
	// material, never as a silently clamped rate.
	for _, e := range r.edgeOrder {
		if e.kind == edgeConsumes {
			continue
		}
		out, ok := e.node.recipe.OutputFor(e.material.commodity)
		if !ok {
			continue
		}
		amount := out.Amount
		if out.Chance != nil {
			amount *= *out.Chance
		}
		e.rate = float64(e.node.machinesRequired) * overclock.RatePerSecond(amount, e.node.effDuration)
		e.material.supply += e.rate
	}

	for _, n := range r.nodeOrder {
		n.utilization = r.utilizationOf(n)
	}
}

// utilizationOf is the worst served supply/demand ratio touching a node.
// Materials with no producer in the graph are raw inputs, assumed available,
// and do not count against it.
func (r *resolution) utilizationOf(n *recipeState) float64 {
	min := 1.0
	for _, e := range r.edgeOrder {
		if e.node != n {
			continue
		}
		m := e.material
		switch e.kind {
		case edgeConsumes:
			if !m.hasProducer || m.demand <= 0 {
				continue
			}
			if ratio := clamp01(m.supply / m.demand); ratio < min {
				min = ratio
			}
		case edgeProduces:
			if m.demand <= 0 || m.supply <= 0 {
				continue
			}
			if ratio := clamp01(m.demand / m.supply); ratio < min {
				min = ratio
			}
		}
	}
	return min
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
