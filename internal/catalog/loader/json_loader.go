package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

// recipesExport mirrors the recipe dump format: one entry per machine recipe
// map, each carrying its recipes with display names attached inline.
type recipesExport struct {
	RecipeMaps []recipeMapExport `json:"recipeMaps"`
}

type recipeMapExport struct {
	DisplayName string         `json:"displayName"`
	MachineID   string         `json:"machineId"`
	Recipes     []recipeExport `json:"recipes"`
}

type recipeExport struct {
	RID           string        `json:"rid"`
	MachineID     string        `json:"machineId"`
	MinTier       string        `json:"minTier"`
	DurationTicks int           `json:"durationTicks"`
	EUT           int64         `json:"eut"`
	ItemInputs    []stackExport `json:"itemInputs"`
	ItemOutputs   []stackExport `json:"itemOutputs"`
	FluidInputs   []stackExport `json:"fluidInputs"`
	FluidOutputs  []stackExport `json:"fluidOutputs"`
}

type stackExport struct {
	ID          string   `json:"id"`
	Meta        int      `json:"meta"`
	Count       int      `json:"count"`
	MB          int      `json:"mb"`
	Chance      *float64 `json:"chance,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// machineTitle derives a human-readable machine name from a recipe map
// display name like "blastFurnaceRecipes".
func machineTitle(displayName string) string {
	name := strings.TrimSuffix(displayName, "Recipes")
	name = strings.ReplaceAll(name, "_", " ")
	name = camelBoundary.ReplaceAllString(name, "$1 $2")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	titled := strings.Join(words, " ")
	if titled == "Blast Furnace" {
		return "Electric Blast Furnace"
	}
	return titled
}

// ParseRecipesJSON decodes a recipe export into recipe definitions plus the
// display-name indexes.
func ParseRecipesJSON(data []byte) ([]*domain.RecipeDefinition, catalog.Names, error) {
	var export recipesExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, catalog.Names{}, fmt.Errorf("parse recipes json: %w", err)
	}

	names := catalog.Names{
		Items:    map[string]string{},
		Fluids:   map[string]string{},
		Machines: map[string]string{},
	}

	var recipes []*domain.RecipeDefinition
	for _, rm := range export.RecipeMaps {
		if rm.MachineID != "" && rm.DisplayName != "" {
			if _, ok := names.Machines[rm.MachineID]; !ok {
				names.Machines[rm.MachineID] = machineTitle(rm.DisplayName)
			}
		}

		for _, re := range rm.Recipes {
			if re.RID == "" {
				continue
			}
			machineID := re.MachineID
			if machineID == "" {
				machineID = rm.MachineID
			}

			def := &domain.RecipeDefinition{
				RID:               re.RID,
				MachineID:         machineID,
				MachineName:       names.Machines[machineID],
				BaseDurationTicks: re.DurationTicks,
				BaseEUT:           re.EUT,
				MinTier:           re.MinTier,
			}

			for _, in := range re.ItemInputs {
				def.ItemInputs = append(def.ItemInputs, domain.ItemStack{ID: in.ID, Meta: in.Meta, Count: in.Count})
				noteItemName(names.Items, in)
			}
			for _, out := range re.ItemOutputs {
				def.ItemOutputs = append(def.ItemOutputs, domain.ItemOutput{ID: out.ID, Meta: out.Meta, Count: out.Count, Chance: out.Chance})
				noteItemName(names.Items, out)
			}
			for _, in := range re.FluidInputs {
				def.FluidInputs = append(def.FluidInputs, domain.FluidStack{ID: in.ID, MB: in.MB})
				noteFluidName(names.Fluids, in)
			}
			for _, out := range re.FluidOutputs {
				def.FluidOutputs = append(def.FluidOutputs, domain.FluidOutput{ID: out.ID, MB: out.MB, Chance: out.Chance})
				noteFluidName(names.Fluids, out)
			}

			recipes = append(recipes, def)
		}
	}

	return recipes, names, nil
}

func noteItemName(items map[string]string, s stackExport) {
	if s.ID == "" || s.DisplayName == "" {
		return
	}
	key := domain.Item(s.ID, s.Meta).Key()
	if _, ok := items[key]; !ok {
		items[key] = s.DisplayName
	}
}

func noteFluidName(fluids map[string]string, s stackExport) {
	if s.ID == "" || s.DisplayName == "" {
		return
	}
	key := domain.Fluid(s.ID).Key()
	if _, ok := fluids[key]; !ok {
		fluids[key] = s.DisplayName
	}
}

// FileLoader reads a recipes.json export from local disk.
type FileLoader struct {
	Path    string
	Version string
}

func NewFileLoader(path, version string) *FileLoader {
	return &FileLoader{Path: path, Version: version}
}

func (l *FileLoader) Load(_ context.Context) (*catalog.Snapshot, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read recipes file: %w", err)
	}
	recipes, names, err := ParseRecipesJSON(data)
	if err != nil {
		return nil, err
	}
	return catalog.Build(l.Version, recipes, names), nil
}
