package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/gtnh-tools/planner-backend/config"
	"github.com/gtnh-tools/planner-backend/internal/catalog"
	"github.com/gtnh-tools/planner-backend/internal/catalog/loader"
	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/engine"
	"github.com/gtnh-tools/planner-backend/internal/planner/export"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
)

// RunPlan resolves a plan request file offline against the local recipes
// export and writes graph.json, graph.yaml and graph.dot.
func RunPlan(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker plan <requestJSON> [outDir]")
	}
	reqPath := args[0]
	outDir := "out"
	if len(args) > 1 {
		outDir = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	reqData, err := os.ReadFile(reqPath)
	if err != nil {
		log.Fatalf("read %s: %v", reqPath, err)
	}
	var req domain.PlanRequest
	if err := json.Unmarshal(reqData, &req); err != nil {
		log.Fatalf("parse %s: %v", reqPath, err)
	}

	fileLoader := loader.NewFileLoader(cfg.Catalog.RecipesJSON, cfg.Catalog.DefaultVersion)
	provider := catalog.NewProvider(fileLoader)
	snap, err := provider.Refresh(context.Background())
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	oc := overclock.New(cfg.Overclock.DurationScalePerTier, cfg.Overclock.EUTScalePerTier)
	eng := engine.New(snap, snap, oc, cfg.Planner.DefaultMaxDepth, cfg.Planner.ByproductChainDepth)

	graph, err := eng.Plan(&req)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}
	graph.Meta.SnapshotVersion = snap.Version()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", outDir, err)
	}
	if err := export.WriteJSON(filepath.Join(outDir, "graph.json"), graph); err != nil {
		log.Fatalf("write graph.json: %v", err)
	}
	if err := export.WriteYAML(filepath.Join(outDir, "graph.yaml"), graph); err != nil {
		log.Fatalf("write graph.yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "graph.dot"), []byte(export.ToDOT(graph, "production plan")), 0644); err != nil {
		log.Fatalf("write graph.dot: %v", err)
	}
	log.Printf("plan written to %s (%d nodes, %d edges)", outDir, len(graph.Nodes), len(graph.Edges))
}
