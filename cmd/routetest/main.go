package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"geoworld/internal/geoerr"
	"geoworld/internal/traffic"
	"geoworld/internal/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: routetest <file.json|file.geojson>")
		os.Exit(1)
	}
	path := os.Args[1]

	document, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	format := geoerr.FormatOSMJSON
	if filepath.Ext(path) == ".geojson" {
		format = geoerr.FormatGeoJSON
	}

	logger, _ := zap.NewDevelopment()
	w := world.New(logger, world.Options{})

	fmt.Printf("Ingesting %s...\n", path)
	if err := w.Ingest(document, format); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	data := w.Data()
	graph := w.Graph()
	fmt.Printf("\n=== Nodes: %d ===\n", len(data.NodeLocations))
	fmt.Printf("=== Chunks: %d ===\n", len(data.Chunks))
	for index, chunk := range data.Chunks {
		fmt.Printf("  %s: %d buildings, %d roads, %d land uses, %d lakes, %d rivers\n",
			index, len(chunk.Buildings), len(chunk.Roads), len(chunk.LandUses),
			len(chunk.Lakes), len(chunk.Rivers))
	}
	fmt.Printf("=== Graph: %d vertices, %d edges ===\n", graph.Size(), graph.EdgeCount())

	if graph.Size() < 2 {
		fmt.Println("\nNot enough graph vertices to route.")
		return
	}

	rng := rand.New(rand.NewPCG(42, 0))
	from := graph.RandomVertex(rng)
	to := graph.RandomVertex(rng)

	for _, class := range []traffic.AgentClass{traffic.ClassCar, traffic.ClassPedestrian} {
		path := graph.ShortestPath(from, to, class)
		if path == nil {
			fmt.Printf("\n%s: no route between %d and %d\n", class, from, to)
			continue
		}
		fmt.Printf("\n%s: route between %d and %d has %d vertices\n",
			class, from, to, len(path))
	}
}
