package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker import <recipesJSON> [version] | plan <requestJSON> [outDir]")
	}

	switch os.Args[1] {
	case "import":
		RunImport(os.Args[2:])
	case "plan":
		RunPlan(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
