package catalog

import (
	"sort"
	"strings"

	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

// Catalog is the read-only lookup capability the planner depends on. A
// Snapshot satisfies it; so can any other backing store.
type Catalog interface {
	LookupByOutput(c domain.Commodity) []*domain.RecipeDefinition
	LookupByInput(c domain.Commodity) []*domain.RecipeDefinition
	LookupByRid(rid string) (*domain.RecipeDefinition, bool)
}

// Snapshot is an immutable, fully indexed view of one recipe dataset version.
// It is never mutated after Build; refreshing data swaps whole snapshots.
type Snapshot struct {
	version string

	recipes  map[string]*domain.RecipeDefinition
	byOutput map[string][]*domain.RecipeDefinition
	byInput  map[string][]*domain.RecipeDefinition

	itemNames    map[string]string // commodity key -> display name
	fluidNames   map[string]string
	machineNames map[string]string

	itemIndex  []searchEntry
	fluidIndex []searchEntry
}

type searchEntry struct {
	lower     string // lowercased id plus display name, for substring matching
	commodity domain.Commodity
	name      string
}

// Names carries the display-name indexes parsed alongside the recipes.
type Names struct {
	Items    map[string]string // commodity key -> name
	Fluids   map[string]string
	Machines map[string]string // machine id -> name
}

// Build indexes a recipe set into a Snapshot. Producer lists are pre-sorted by
// energy per cycle (duration x EU/t), ties broken by ascending rid, so the
// head of each list is the default candidate.
func Build(version string, recipes []*domain.RecipeDefinition, names Names) *Snapshot {
	s := &Snapshot{
		version:      version,
		recipes:      make(map[string]*domain.RecipeDefinition, len(recipes)),
		byOutput:     make(map[string][]*domain.RecipeDefinition),
		byInput:      make(map[string][]*domain.RecipeDefinition),
		itemNames:    names.Items,
		fluidNames:   names.Fluids,
		machineNames: names.Machines,
	}
	if s.itemNames == nil {
		s.itemNames = map[string]string{}
	}
	if s.fluidNames == nil {
		s.fluidNames = map[string]string{}
	}
	if s.machineNames == nil {
		s.machineNames = map[string]string{}
	}

	seenItems := map[string]bool{}
	seenFluids := map[string]bool{}

	for _, r := range recipes {
		if r == nil || r.RID == "" {
			continue
		}
		if _, dup := s.recipes[r.RID]; dup {
			continue
		}
		if r.MachineName == "" {
			if name := s.machineNames[r.MachineID]; name != "" {
				cp := *r
				cp.MachineName = name
				r = &cp
			}
		}
		s.recipes[r.RID] = r

		for _, out := range r.Outputs() {
			key := out.Commodity.Key()
			s.byOutput[key] = append(s.byOutput[key], r)
			s.noteCommodity(out.Commodity, seenItems, seenFluids)
		}
		for _, in := range r.Inputs() {
			key := in.Commodity.Key()
			s.byInput[key] = append(s.byInput[key], r)
			s.noteCommodity(in.Commodity, seenItems, seenFluids)
		}
	}

	for key := range s.byOutput {
		candidates := s.byOutput[key]
		sort.Slice(candidates, func(i, j int) bool {
			ei, ej := candidates[i].EnergyPerCycle(), candidates[j].EnergyPerCycle()
			if ei != ej {
				return ei < ej
			}
			return candidates[i].RID < candidates[j].RID
		})
	}
	for key := range s.byInput {
		consumers := s.byInput[key]
		sort.Slice(consumers, func(i, j int) bool {
			return consumers[i].RID < consumers[j].RID
		})
	}

	sort.Slice(s.itemIndex, func(i, j int) bool { return s.itemIndex[i].lower < s.itemIndex[j].lower })
	sort.Slice(s.fluidIndex, func(i, j int) bool { return s.fluidIndex[i].lower < s.fluidIndex[j].lower })

	return s
}

func (s *Snapshot) noteCommodity(c domain.Commodity, seenItems, seenFluids map[string]bool) {
	key := c.Key()
	switch c.Kind {
	case domain.KindItem:
		if seenItems[key] {
			return
		}
		seenItems[key] = true
		name := s.itemNames[key]
		s.itemIndex = append(s.itemIndex, searchEntry{
			lower:     strings.ToLower(c.ID + " " + name),
			commodity: c,
			name:      name,
		})
	case domain.KindFluid:
		if seenFluids[key] {
			return
		}
		seenFluids[key] = true
		name := s.fluidNames[key]
		s.fluidIndex = append(s.fluidIndex, searchEntry{
			lower:     strings.ToLower(c.ID + " " + name),
			commodity: c,
			name:      name,
		})
	}
}

func (s *Snapshot) Version() string { return s.version }

func (s *Snapshot) RecipeCount() int { return len(s.recipes) }

func (s *Snapshot) LookupByOutput(c domain.Commodity) []*domain.RecipeDefinition {
	return s.byOutput[c.Key()]
}

func (s *Snapshot) LookupByInput(c domain.Commodity) []*domain.RecipeDefinition {
	return s.byInput[c.Key()]
}

func (s *Snapshot) LookupByRid(rid string) (*domain.RecipeDefinition, bool) {
	r, ok := s.recipes[rid]
	return r, ok
}

// DefaultFor returns the default producing recipe for a commodity: lowest
// energy per cycle, ties broken by ascending rid.
func (s *Snapshot) DefaultFor(c domain.Commodity) (*domain.RecipeDefinition, bool) {
	candidates := s.byOutput[c.Key()]
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[0], true
}

// SearchResult is one autocomplete hit.
type SearchResult struct {
	Commodity domain.Commodity `json:"commodity"`
	Name      string           `json:"name,omitempty"`
}

// SearchItems does case-insensitive substring matching over item ids and
// display names.
func (s *Snapshot) SearchItems(query string, limit int) []SearchResult {
	return search(s.itemIndex, query, limit)
}

func (s *Snapshot) SearchFluids(query string, limit int) []SearchResult {
	return search(s.fluidIndex, query, limit)
}

func search(index []searchEntry, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(query)
	results := make([]SearchResult, 0, limit)
	for _, entry := range index {
		if q != "" && !strings.Contains(entry.lower, q) {
			continue
		}
		results = append(results, SearchResult{Commodity: entry.commodity, Name: entry.name})
		if len(results) >= limit {
			break
		}
	}
	return results
}

// DisplayName resolves a display name for a commodity, falling back to its id.
func (s *Snapshot) DisplayName(c domain.Commodity) string {
	key := c.Key()
	if c.Kind == domain.KindFluid {
		if name := s.fluidNames[key]; name != "" {
			return name
		}
		return c.ID
	}
	if name := s.itemNames[key]; name != "" {
		return name
	}
	return c.ID
}

// MachineName resolves a machine's display name, falling back to its id.
func (s *Snapshot) MachineName(machineID string) string {
	if name := s.machineNames[machineID]; name != "" {
		return name
	}
	return machineID
}

// Machines lists the distinct machine ids present in the snapshot, sorted.
func (s *Snapshot) Machines() []string {
	seen := map[string]bool{}
	var ids []string
	for _, r := range s.recipes {
		if !seen[r.MachineID] {
			seen[r.MachineID] = true
			ids = append(ids, r.MachineID)
		}
	}
	sort.Strings(ids)
	return ids
}

// MachineRecipeCount pairs a machine id with how many recipes it hosts.
type MachineRecipeCount struct {
	MachineID   string `json:"machine_id"`
	MachineName string `json:"machine_name,omitempty"`
	RecipeCount int    `json:"recipe_count"`
}

// MachineCountsForOutput groups the producers of a commodity by machine.
func (s *Snapshot) MachineCountsForOutput(c domain.Commodity) []MachineRecipeCount {
	return s.machineCounts(s.byOutput[c.Key()])
}

// MachineCountsForInput groups the consumers of a commodity by machine.
func (s *Snapshot) MachineCountsForInput(c domain.Commodity) []MachineRecipeCount {
	return s.machineCounts(s.byInput[c.Key()])
}

func (s *Snapshot) machineCounts(recipes []*domain.RecipeDefinition) []MachineRecipeCount {
	counts := map[string]int{}
	for _, r := range recipes {
		counts[r.MachineID]++
	}
	out := make([]MachineRecipeCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, MachineRecipeCount{MachineID: id, MachineName: s.machineNames[id], RecipeCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MachineID < out[j].MachineID })
	return out
}
