package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gtnh-tools/planner-backend/internal/api/http/middleware"
	"github.com/gtnh-tools/planner-backend/internal/catalog"
	cataloghttp "github.com/gtnh-tools/planner-backend/internal/catalog/http"
	plannerhttp "github.com/gtnh-tools/planner-backend/internal/planner/http"
	plannersvc "github.com/gtnh-tools/planner-backend/internal/planner/service"
)

type V1Deps struct {
	Provider   *catalog.Provider
	Planner    *plannersvc.PlannerService
	AdminGuard gin.HandlerFunc // nil disables the admin routes' extra gate

	PlanRatePerSecond float64
	PlanRateBurst     int
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	catalogHandler := cataloghttp.NewHandler(dep.Provider)
	catalogHandler.Register(api)
	catalogHandler.RegisterAdmin(api, dep.AdminGuard)

	plannerHandler := plannerhttp.NewHandler(dep.Planner)
	plannerHandler.Register(api, middleware.RateLimitMiddleware(dep.PlanRatePerSecond, dep.PlanRateBurst))
}
