package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	httpapi "github.com/gtnh-tools/planner-backend/internal/api/http"
	"github.com/gtnh-tools/planner-backend/internal/api/http/routes"
	"github.com/gtnh-tools/planner-backend/internal/catalog"
	plannersvc "github.com/gtnh-tools/planner-backend/internal/planner/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string

	Provider *catalog.Provider
	Planner  *plannersvc.PlannerService

	DB    *pgxpool.Pool
	Redis *goredis.Client

	AdminGuard gin.HandlerFunc

	PlanRatePerSecond float64
	PlanRateBurst     int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis, dep.Provider)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Provider:          dep.Provider,
		Planner:           dep.Planner,
		AdminGuard:        dep.AdminGuard,
		PlanRatePerSecond: dep.PlanRatePerSecond,
		PlanRateBurst:     dep.PlanRateBurst,
	})

	return r
}
