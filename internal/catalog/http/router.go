package http

import "github.com/gin-gonic/gin"

// Register wires the catalog browse/search routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/versions", h.Versions)
	rg.GET("/search/items", h.SearchItems)
	rg.GET("/search/fluids", h.SearchFluids)
	rg.GET("/recipes/by-output", h.RecipesByOutput)
	rg.GET("/recipes/:rid", h.RecipeByRID)
	rg.GET("/machines", h.Machines)
	rg.GET("/machines/by-output", h.MachinesByOutput)
}
