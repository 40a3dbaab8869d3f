package service

import (
	"context"
	"errors"
	"log"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/engine"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
	"github.com/gtnh-tools/planner-backend/internal/planner/repository"
)

// ErrCatalogUnavailable means no snapshot has been loaded yet.
var ErrCatalogUnavailable = errors.New("catalog snapshot not loaded")

// PlannerService runs plan requests against the current catalog snapshot,
// with an optional Redis cache in front of the engine.
type PlannerService struct {
	provider   *catalog.Provider
	cache      *repository.PlanCache
	oc         *overclock.Model
	maxDepth   int
	chainDepth int
}

func NewPlannerService(provider *catalog.Provider, cache *repository.PlanCache, oc *overclock.Model, defaultMaxDepth, byproductChainDepth int) *PlannerService {
	return &PlannerService{
		provider:   provider,
		cache:      cache,
		oc:         oc,
		maxDepth:   defaultMaxDepth,
		chainDepth: byproductChainDepth,
	}
}

// Plan computes (or retrieves) the production graph for a request. The
// snapshot is pinned once at entry; a concurrent refresh never mixes views
// within one call.
func (s *PlannerService) Plan(ctx context.Context, req *domain.PlanRequest) (*domain.PlanGraph, error) {
	snap := s.provider.Current()
	if snap == nil {
		return nil, ErrCatalogUnavailable
	}

	var cacheKey string
	if s.cache != nil {
		key, err := s.cache.Key(snap.Version(), req)
		if err == nil {
			cacheKey = key
			if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
				log.Printf("plan cache read failed: %v", err)
			} else if cached != nil {
				return cached, nil
			}
		}
	}

	eng := engine.New(snap, snap, s.oc, s.maxDepth, s.chainDepth)
	graph, err := eng.Plan(req)
	if err != nil {
		return nil, err
	}
	graph.Meta.SnapshotVersion = snap.Version()

	if s.cache != nil && cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, graph); err != nil {
			log.Printf("plan cache write failed: %v", err)
		}
	}
	return graph, nil
}
