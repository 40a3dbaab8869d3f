package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/catalog/domain"
)

// Handler serves the catalog browse and search endpoints over the current
// snapshot.
type Handler struct {
	provider *catalog.Provider
}

func NewHandler(provider *catalog.Provider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) snapshot(c *gin.Context) (*catalog.Snapshot, bool) {
	snap := h.provider.Current()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog snapshot not loaded"})
		return nil, false
	}
	return snap, true
}

// Versions reports the loaded snapshot version and recipe count.
func (h *Handler) Versions(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":      snap.Version(),
		"recipe_count": snap.RecipeCount(),
	})
}

// SearchItems matches items by id or display name substring.
func (h *Handler) SearchItems(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	c.JSON(http.StatusOK, gin.H{"results": snap.SearchItems(c.Query("q"), limit)})
}

// SearchFluids matches fluids by id or display name substring.
func (h *Handler) SearchFluids(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	c.JSON(http.StatusOK, gin.H{"results": snap.SearchFluids(c.Query("q"), limit)})
}

// commodityFromQuery reads output_type/item_id/meta/fluid_id query params.
func commodityFromQuery(c *gin.Context) (domain.Commodity, bool) {
	switch c.DefaultQuery("output_type", "item") {
	case "item":
		id := c.Query("item_id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
			return domain.Commodity{}, false
		}
		meta, err := strconv.Atoi(c.DefaultQuery("meta", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "meta must be an integer"})
			return domain.Commodity{}, false
		}
		return domain.Item(id, meta), true
	case "fluid":
		id := c.Query("fluid_id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fluid_id is required"})
			return domain.Commodity{}, false
		}
		return domain.Fluid(id), true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "output_type must be item or fluid"})
		return domain.Commodity{}, false
	}
}

// RecipesByOutput lists producing recipes for a commodity, default candidate
// first.
func (h *Handler) RecipesByOutput(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	commodity, ok := commodityFromQuery(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit <= 0 {
		limit = 25
	}

	recipes := snap.LookupByOutput(commodity)
	if len(recipes) > limit {
		recipes = recipes[:limit]
	}
	out := make([]recipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, summarize(snap, r))
	}
	c.JSON(http.StatusOK, gin.H{"commodity": commodity, "recipes": out})
}

// RecipeByRID returns one recipe in full.
func (h *Handler) RecipeByRID(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	rid := c.Param("rid")
	recipe, found := snap.LookupByRid(rid)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": summarize(snap, recipe)})
}

// Machines lists every machine with its hosted recipe count.
func (h *Handler) Machines(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	ids := snap.Machines()
	out := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		out = append(out, gin.H{"machine_id": id, "machine_name": snap.MachineName(id)})
	}
	c.JSON(http.StatusOK, gin.H{"machines": out})
}

// MachinesByOutput groups a commodity's producers by machine.
func (h *Handler) MachinesByOutput(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	commodity, ok := commodityFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"commodity": commodity,
		"machines":  snap.MachineCountsForOutput(commodity),
	})
}
