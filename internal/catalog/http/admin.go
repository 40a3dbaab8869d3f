package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Refresh forces a snapshot reload and atomic swap. Mounted behind the admin
// guard.
func (h *Handler) Refresh(c *gin.Context) {
	snap, err := h.provider.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":      snap.Version(),
		"recipe_count": snap.RecipeCount(),
	})
}

// RegisterAdmin wires the admin catalog routes; guard is the configured auth
// middleware (Firebase token or shared admin key).
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	admin := rg.Group("/admin/catalog")
	if guard != nil {
		admin.Use(guard)
	}
	admin.POST("/refresh", h.Refresh)
}
