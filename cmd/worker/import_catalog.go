package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/gtnh-tools/planner-backend/config"
	"github.com/gtnh-tools/planner-backend/internal/bootstrap"
	"github.com/gtnh-tools/planner-backend/internal/catalog/loader"
	catalogrepo "github.com/gtnh-tools/planner-backend/internal/catalog/repository"
)

// RunImport parses a recipes.json export and replaces the Postgres snapshot.
func RunImport(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker import <recipesJSON> [version]")
	}
	path := args[0]
	version := ""
	if len(args) > 1 {
		version = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if version == "" {
		version = cfg.Catalog.DefaultVersion
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	recipes, names, err := loader.ParseRecipesJSON(data)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	db, err := bootstrap.OpenSQL(bootstrap.DSN(cfg.Database))
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	batch := uuid.NewString()
	log.Printf("import %s: %d recipes, version %s", batch, len(recipes), version)

	store := catalogrepo.NewRecipeStore(db)
	if err := store.Import(context.Background(), version, recipes, names); err != nil {
		log.Fatalf("import %s failed: %v", batch, err)
	}
	log.Printf("import %s completed", batch)
}
