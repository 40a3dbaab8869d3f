package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/export"
	"github.com/gtnh-tools/planner-backend/internal/planner/service"
)

// Handler serves the planning endpoints.
type Handler struct {
	planner *service.PlannerService
}

func NewHandler(planner *service.PlannerService) *Handler {
	return &Handler{planner: planner}
}

// PlanGraph computes a production graph for the posted request.
func (h *Handler) PlanGraph(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	graph, err := h.planner.Plan(c.Request.Context(), &req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "dot" {
		c.String(http.StatusOK, export.ToDOT(graph, "production plan"))
		return
	}
	c.JSON(http.StatusOK, graph)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoRecipeForTarget),
		errors.Is(err, domain.ErrInvalidOverride),
		errors.Is(err, domain.ErrDegenerateRecipe):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
