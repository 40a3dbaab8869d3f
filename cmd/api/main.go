package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gtnh-tools/planner-backend/config"
	"github.com/gtnh-tools/planner-backend/internal/auth"
	authmw "github.com/gtnh-tools/planner-backend/internal/auth/middleware"
	"github.com/gtnh-tools/planner-backend/internal/bootstrap"
	"github.com/gtnh-tools/planner-backend/internal/catalog"
	cronjob "github.com/gtnh-tools/planner-backend/internal/catalog/cron"
	"github.com/gtnh-tools/planner-backend/internal/catalog/loader"
	catalogrepo "github.com/gtnh-tools/planner-backend/internal/catalog/repository"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
	plannerrepo "github.com/gtnh-tools/planner-backend/internal/planner/repository"
	plannersvc "github.com/gtnh-tools/planner-backend/internal/planner/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	deps := bootstrap.RouterDeps{
		ServiceName: "planner-backend",
		Version:     cfg.App.Version,
	}

	snapLoader, err := buildLoader(ctx, cfg, &deps)
	if err != nil {
		log.Fatalf("catalog loader: %v", err)
	}

	provider := catalog.NewProvider(snapLoader)
	if _, err := provider.Refresh(ctx); err != nil {
		log.Fatalf("initial catalog load: %v", err)
	}
	deps.Provider = provider

	if cfg.Catalog.RefreshCron != "" {
		refresher := cronjob.NewRefresher(provider, cfg.Catalog.RefreshCron)
		refresher.Start()
		defer refresher.Stop()
	}

	var cache *plannerrepo.PlanCache
	if redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis); err != nil {
		log.Printf("redis unavailable, plan cache disabled: %v", err)
	} else {
		deps.Redis = redisClient
		cache = plannerrepo.NewPlanCache(redisClient, time.Duration(cfg.Planner.CacheTTLSeconds)*time.Second)
	}

	oc := overclock.New(cfg.Overclock.DurationScalePerTier, cfg.Overclock.EUTScalePerTier)
	deps.Planner = plannersvc.NewPlannerService(provider, cache, oc,
		cfg.Planner.DefaultMaxDepth, cfg.Planner.ByproductChainDepth)

	deps.AdminGuard = adminGuard(cfg)
	deps.PlanRatePerSecond = cfg.Planner.RateLimitPerSecond
	deps.PlanRateBurst = cfg.Planner.RateLimitBurst

	r := bootstrap.BuildRouter(deps)

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// buildLoader picks the snapshot source from config. The postgres source also
// opens the pgx pool the health endpoint reports on.
func buildLoader(ctx context.Context, cfg *config.Config, deps *bootstrap.RouterDeps) (catalog.Loader, error) {
	switch cfg.Catalog.Source {
	case "s3":
		return loader.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Prefix,
			cfg.Catalog.S3Region, cfg.Catalog.DefaultVersion)
	case "postgres":
		dsn := bootstrap.DSN(cfg.Database)
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: dsn})
		if err != nil {
			return nil, err
		}
		deps.DB = pool
		db, err := bootstrap.OpenSQL(dsn)
		if err != nil {
			return nil, err
		}
		return catalogrepo.NewRecipeStore(db), nil
	default:
		return loader.NewFileLoader(cfg.Catalog.RecipesJSON, cfg.Catalog.DefaultVersion), nil
	}
}

// adminGuard prefers Firebase token verification, falling back to the shared
// admin key header.
func adminGuard(cfg *config.Config) gin.HandlerFunc {
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Printf("firebase init failed, falling back to admin key: %v", err)
		} else {
			return authmw.FirebaseAuthMiddleware(client)
		}
	}
	return authmw.AdminKeyMiddleware(cfg.Admin.APIKey)
}
