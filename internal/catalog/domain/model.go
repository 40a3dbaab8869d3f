package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type CommodityKind string

const (
	KindItem  CommodityKind = "item"
	KindFluid CommodityKind = "fluid"
)

// Commodity identifies an item or a fluid. Fluids always carry Meta 0.
type Commodity struct {
	Kind CommodityKind `json:"kind"`
	ID   string        `json:"id"`
	Meta int           `json:"meta"`
}

// Key is the canonical identity string, kind:id:meta. It doubles as the
// material node id in planned graphs.
func (c Commodity) Key() string {
	return fmt.Sprintf("%s:%s:%d", c.Kind, c.ID, c.Meta)
}

func (c Commodity) IsValid() bool {
	if c.ID == "" {
		return false
	}
	switch c.Kind {
	case KindItem:
		return true
	case KindFluid:
		return c.Meta == 0
	default:
		return false
	}
}

func Item(id string, meta int) Commodity {
	return Commodity{Kind: KindItem, ID: id, Meta: meta}
}

func Fluid(id string) Commodity {
	return Commodity{Kind: KindFluid, ID: id, Meta: 0}
}

// ParseKey inverts Key. IDs may themselves contain colons, so the kind is
// split off the front and the meta off the back.
func ParseKey(key string) (Commodity, error) {
	head, rest, ok := strings.Cut(key, ":")
	if !ok {
		return Commodity{}, fmt.Errorf("malformed commodity key %q", key)
	}
	kind := CommodityKind(head)
	if kind != KindItem && kind != KindFluid {
		return Commodity{}, fmt.Errorf("unknown commodity kind in key %q", key)
	}

	sep := strings.LastIndex(rest, ":")
	if sep < 0 {
		return Commodity{}, fmt.Errorf("malformed commodity key %q", key)
	}
	meta, err := strconv.Atoi(rest[sep+1:])
	if err != nil {
		return Commodity{}, fmt.Errorf("malformed meta in key %q", key)
	}

	c := Commodity{Kind: kind, ID: rest[:sep], Meta: meta}
	if !c.IsValid() {
		return Commodity{}, fmt.Errorf("invalid commodity key %q", key)
	}
	return c, nil
}

// ItemStack is an item amount on the input side of a recipe.
type ItemStack struct {
	ID    string `json:"item_id"`
	Meta  int    `json:"meta"`
	Count int    `json:"count"`
}

func (s ItemStack) Commodity() Commodity { return Item(s.ID, s.Meta) }

// FluidStack is a fluid amount (millibuckets per cycle).
type FluidStack struct {
	ID string `json:"fluid_id"`
	MB int    `json:"mb"`
}

func (s FluidStack) Commodity() Commodity { return Fluid(s.ID) }

// ItemOutput is an item amount on the output side; Chance, when set, is the
// probability (0..1) that a cycle yields the stack.
type ItemOutput struct {
	ID     string   `json:"item_id"`
	Meta   int      `json:"meta"`
	Count  int      `json:"count"`
	Chance *float64 `json:"chance,omitempty"`
}

func (o ItemOutput) Commodity() Commodity { return Item(o.ID, o.Meta) }

type FluidOutput struct {
	ID     string   `json:"fluid_id"`
	MB     int      `json:"mb"`
	Chance *float64 `json:"chance,omitempty"`
}

func (o FluidOutput) Commodity() Commodity { return Fluid(o.ID) }

// RecipeDefinition is one machine transformation from the catalog snapshot.
type RecipeDefinition struct {
	RID               string        `json:"rid"`
	MachineID         string        `json:"machine_id"`
	MachineName       string        `json:"machine_name,omitempty"`
	BaseDurationTicks int           `json:"duration_ticks"`
	BaseEUT           int64         `json:"eut"`
	MinTier           string        `json:"min_tier,omitempty"`
	ItemInputs        []ItemStack   `json:"item_inputs,omitempty"`
	FluidInputs       []FluidStack  `json:"fluid_inputs,omitempty"`
	ItemOutputs       []ItemOutput  `json:"item_outputs,omitempty"`
	FluidOutputs      []FluidOutput `json:"fluid_outputs,omitempty"`
}

// Flow is a unified view over item and fluid stacks used by the planner:
// Amount is item count or fluid mB per cycle.
type Flow struct {
	Commodity Commodity
	Amount    float64
	Chance    *float64
}

func (r *RecipeDefinition) Inputs() []Flow {
	flows := make([]Flow, 0, len(r.ItemInputs)+len(r.FluidInputs))
	for _, in := range r.ItemInputs {
		flows = append(flows, Flow{Commodity: in.Commodity(), Amount: float64(in.Count)})
	}
	for _, in := range r.FluidInputs {
		flows = append(flows, Flow{Commodity: in.Commodity(), Amount: float64(in.MB)})
	}
	return flows
}

func (r *RecipeDefinition) Outputs() []Flow {
	flows := make([]Flow, 0, len(r.ItemOutputs)+len(r.FluidOutputs))
	for _, out := range r.ItemOutputs {
		flows = append(flows, Flow{Commodity: out.Commodity(), Amount: float64(out.Count), Chance: out.Chance})
	}
	for _, out := range r.FluidOutputs {
		flows = append(flows, Flow{Commodity: out.Commodity(), Amount: float64(out.MB), Chance: out.Chance})
	}
	return flows
}

// OutputFor returns the output flow matching c, if the recipe produces it.
func (r *RecipeDefinition) OutputFor(c Commodity) (Flow, bool) {
	key := c.Key()
	for _, out := range r.Outputs() {
		if out.Commodity.Key() == key {
			return out, true
		}
	}
	return Flow{}, false
}

// InputFor returns the input flow matching c, if the recipe consumes it.
func (r *RecipeDefinition) InputFor(c Commodity) (Flow, bool) {
	key := c.Key()
	for _, in := range r.Inputs() {
		if in.Commodity.Key() == key {
			return in, true
		}
	}
	return Flow{}, false
}

// EnergyPerCycle orders default recipe selection: duration x EU/t.
func (r *RecipeDefinition) EnergyPerCycle() float64 {
	return float64(r.BaseDurationTicks) * float64(r.BaseEUT)
}
