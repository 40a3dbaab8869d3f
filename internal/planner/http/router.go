package http

import "github.com/gin-gonic/gin"

// Register wires the planner routes. Extra middleware (rate limiting) applies
// to the plan endpoint only.
func (h *Handler) Register(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(mw, h.PlanGraph)
	rg.POST("/planner/graph", handlers...)
}
