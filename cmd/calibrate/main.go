// Package main finds the smoothing factor at which two emitters merge into a
// single surface, and confirms it by triangulating on either side of it.
//
// Usage: go run ./cmd/calibrate -radius 0.02 -spacing 0.05
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pthm-cable/blobs/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	radius := flag.Float64("radius", 0.02, "Emitter radius")
	spacing := flag.Float64("spacing", 0.05, "Distance between emitter centers")
	margin := flag.Float64("margin", 0, "How far below the iso level the midpoint must reach")
	cells := flag.Int("cells", 40, "Cells per axis for the verification meshes")
	maxEvals := flag.Int("max-evals", 400, "Maximum number of field evaluations")
	configOut := flag.String("config-out", "", "Write the base config with the calibrated smoothing to this path")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	pair := Pair{Radius: *radius, Spacing: *spacing, IsoLevel: cfg.Field.IsoLevel}
	cal, err := Solve(pair, *margin, *maxEvals)
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
	}

	fmt.Printf("radius=%.4f spacing=%.4f iso=%.4f\n", pair.Radius, pair.Spacing, pair.IsoLevel)
	fmt.Printf("merge smoothing k=%.6f (%d evaluations)\n", cal.Smoothing, cal.Evaluations)

	for _, scale := range []float64{0.5, 1.5} {
		k := cal.Smoothing * scale
		n, err := Components(pair, k, *cells)
		if err != nil {
			log.Fatalf("verification at k=%.6f failed: %v", k, err)
		}
		fmt.Printf("  k=%.6f: %d component(s)\n", k, n)
	}

	if *configOut != "" {
		out, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to reload config: %v", err)
		}
		out.Field.Smoothing = cal.Smoothing
		if err := out.WriteYAML(*configOut); err != nil {
			log.Fatalf("failed to write config: %v", err)
		}
		fmt.Printf("config saved to: %s\n", *configOut)
	}
}
