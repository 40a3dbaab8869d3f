package engine

import (
	"sort"

	cdomain "github.com/gtnh-tools/planner-backend/internal/catalog/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
)

// assemble emits the response graph. All ids derive from stable keys and the
// output is sorted, so identical requests over one snapshot produce
// byte-identical payloads.
func (r *resolution) assemble() *domain.PlanGraph {
	graph := &domain.PlanGraph{
		Nodes: make([]domain.Node, 0, len(r.materials)+len(r.nodeOrder)),
		Edges: make([]domain.Edge, 0, len(r.edgeOrder)),
		Meta:  domain.Meta{Warnings: r.warnings},
	}

	for _, m := range r.materials {
		graph.Nodes = append(graph.Nodes, r.materialNode(m))
	}
	for _, n := range r.nodeOrder {
		graph.Nodes = append(graph.Nodes, r.recipeNode(n))
	}
	sort.Slice(graph.Nodes, func(i, j int) bool { return graph.Nodes[i].ID < graph.Nodes[j].ID })

	for _, e := range r.edgeOrder {
		var source, target string
		if e.kind == edgeConsumes {
			source, target = e.material.commodity.Key(), e.node.id()
		} else {
			source, target = e.node.id(), e.material.commodity.Key()
		}
		graph.Edges = append(graph.Edges, domain.Edge{
			ID:       e.kind + ":" + source + "->" + target,
			Source:   source,
			Target:   target,
			Kind:     e.kind,
			RatePerS: e.rate,
		})
	}
	sort.Slice(graph.Edges, func(i, j int) bool { return graph.Edges[i].ID < graph.Edges[j].ID })

	return graph
}

func (r *resolution) materialNode(m *materialState) domain.Node {
	c := m.commodity
	node := domain.Node{
		ID:    c.Key(),
		Type:  string(c.Kind),
		Label: c.ID,
	}
	if r.namer != nil {
		node.Label = r.namer.DisplayName(c)
	}
	switch c.Kind {
	case cdomain.KindItem:
		node.ItemID = c.ID
		meta := c.Meta
		node.Meta = &meta
	case cdomain.KindFluid:
		node.FluidID = c.ID
	}
	if m.targetRate > 0 {
		rate := m.targetRate
		node.TargetRatePerS = &rate
	}
	return node
}

func (r *resolution) recipeNode(n *recipeState) domain.Node {
	recipe := n.recipe
	label := recipe.MachineName
	if label == "" {
		label = recipe.MachineID
	}

	required := n.machinesRequired
	demand := n.machinesDemand
	perMachine := n.perMachineRate
	baseDur := recipe.BaseDurationTicks
	baseEUT := recipe.BaseEUT
	dur := n.effDuration
	eut := n.effEUT
	tiers := n.tiers
	util := n.utilization

	return domain.Node{
		ID:                n.id(),
		Type:              "recipe",
		Label:             label,
		RID:               recipe.RID,
		OutputKey:         n.outputKey,
		MachineID:         recipe.MachineID,
		MachineName:       recipe.MachineName,
		MachinesRequired:  &required,
		MachinesDemand:    &demand,
		PerMachineRate:    &perMachine,
		MinTier:           recipe.MinTier,
		BaseDurationTicks: &baseDur,
		BaseEUT:           &baseEUT,
		DurationTicks:     &dur,
		EUT:               &eut,
		OverclockTiers:    &tiers,
		Utilization:       &util,
		ByproductInputKey: n.byproductInputKey,
	}
}
