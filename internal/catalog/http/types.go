package http

import (
	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

// recipeSummary is the browse-facing view of a recipe, with display names
// resolved from the snapshot.
type recipeSummary struct {
	RID           string        `json:"rid"`
	MachineID     string        `json:"machine_id"`
	MachineName   string        `json:"machine_name,omitempty"`
	MinTier       string        `json:"min_tier,omitempty"`
	DurationTicks int           `json:"duration_ticks"`
	EUT           int64         `json:"eut"`
	Inputs        []flowSummary `json:"inputs"`
	Outputs       []flowSummary `json:"outputs"`
}

type flowSummary struct {
	Kind   string   `json:"kind"`
	ID     string   `json:"id"`
	Meta   int      `json:"meta,omitempty"`
	Name   string   `json:"name,omitempty"`
	Amount float64  `json:"amount"`
	Chance *float64 `json:"chance,omitempty"`
}

func summarize(snap *catalog.Snapshot, r *domain.RecipeDefinition) recipeSummary {
	s := recipeSummary{
		RID:           r.RID,
		MachineID:     r.MachineID,
		MachineName:   snap.MachineName(r.MachineID),
		MinTier:       r.MinTier,
		DurationTicks: r.BaseDurationTicks,
		EUT:           r.BaseEUT,
		Inputs:        make([]flowSummary, 0, len(r.ItemInputs)+len(r.FluidInputs)),
		Outputs:       make([]flowSummary, 0, len(r.ItemOutputs)+len(r.FluidOutputs)),
	}
	for _, in := range r.Inputs() {
		s.Inputs = append(s.Inputs, flowOf(snap, in))
	}
	for _, out := range r.Outputs() {
		s.Outputs = append(s.Outputs, flowOf(snap, out))
	}
	return s
}

func flowOf(snap *catalog.Snapshot, f domain.Flow) flowSummary {
	return flowSummary{
		Kind:   string(f.Commodity.Kind),
		ID:     f.Commodity.ID,
		Meta:   f.Commodity.Meta,
		Name:   snap.DisplayName(f.Commodity),
		Amount: f.Amount,
		Chance: f.Chance,
	}
}
