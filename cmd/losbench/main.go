// Command losbench resolves the visibility polygon from many random
// viewpoints with the brute-force, R-tree and parallel strategies, checks
// that they agree and reports their timings.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/ttacon/chalk"

	"chosenoffset.com/lineofsight/internal/config"
	"chosenoffset.com/lineofsight/internal/core/sight"
	"chosenoffset.com/lineofsight/internal/core/spatial"
	"chosenoffset.com/lineofsight/internal/world/level"
)

// strategy is one way of resolving a frame.
type strategy struct {
	name      string
	obstacles sight.Obstacles
	cfg       sight.Config

	elapsed    time.Duration
	mismatches int
}

func main() {
	settingsFile := flag.String("config", "lineofsight.json", "Settings file to load (defaults if missing)")
	levelFile := flag.String("level", "", "Level file to benchmark instead of a generated one")
	saveFile := flag.String("save", "", "Write the benchmarked level to this file")
	frames := flag.Int("frames", 500, "Number of random viewpoints")
	seed := flag.Int64("seed", 1, "Seed for the level and the viewpoints")
	workers := flag.Int("workers", runtime.NumCPU(), "Goroutines for the parallel strategy")
	verbose := flag.Bool("v", false, "Log level generation")
	flag.Parse()

	if *verbose {
		level.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	settings, err := config.LoadSettings(*settingsFile)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	settings.Scene.Seed = *seed

	lvl, err := loadOrGenerate(settings, *levelFile)
	if err != nil {
		log.Fatalf("Failed to prepare level: %v", err)
	}

	if *saveFile != "" {
		if err := level.SaveLevel(*saveFile, lvl); err != nil {
			log.Fatalf("Failed to save level: %v", err)
		}
		log.Printf("Level saved to %s", *saveFile)
	}

	index, err := spatial.NewIndex(lvl.Segments)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}

	base := settings.Sight()
	base.Workers = 1
	parallel := base
	parallel.Workers = max(1, *workers)

	strategies := []*strategy{
		{name: "brute force", obstacles: lvl.Segments, cfg: base},
		{name: "r-tree", obstacles: index, cfg: base},
		{name: fmt.Sprintf("parallel x%d", parallel.Workers), obstacles: lvl.Segments, cfg: parallel},
		{name: fmt.Sprintf("r-tree parallel x%d", parallel.Workers), obstacles: index, cfg: parallel},
	}

	log.Printf("Benchmarking %d frames: %d segments, %d rays of length %.0f, clip %v",
		*frames, len(lvl.Segments), base.RayCount, base.RayLength, base.ClipToRayLength)

	rng := rand.New(rand.NewSource(*seed))
	vertices := 0

	bar := pb.New(*frames)
	bar.SetWidth(80)
	bar.Start()

	for i := 0; i < *frames; i++ {
		viewpoint := sight.Point{
			X: lvl.Bounds.MinX + rng.Float64()*lvl.Bounds.Width(),
			Y: lvl.Bounds.MinY + rng.Float64()*lvl.Bounds.Height(),
		}

		var reference []sight.Point
		for j, s := range strategies {
			start := time.Now()
			polygon, err := sight.ComputeVisibilityPolygon(viewpoint, s.obstacles, s.cfg)
			s.elapsed += time.Since(start)
			if err != nil {
				bar.Finish()
				log.Fatalf("Failed to compute visibility with %s: %v", s.name, err)
			}

			if j == 0 {
				reference = polygon
				vertices += len(polygon)
			} else if !slices.Equal(reference, polygon) {
				s.mismatches++
			}
		}

		bar.Increment()
	}
	bar.Finish()

	report(strategies, *frames, vertices)
}

func loadOrGenerate(settings config.Settings, path string) (*level.Level, error) {
	if path != "" {
		log.Printf("Loading level: %s", path)
		return level.LoadLevel(path)
	}
	return level.NewGenerator(settings.Level()).Generate()
}

func report(strategies []*strategy, frames, vertices int) {
	log.Printf("Average polygon: %.1f vertices", float64(vertices)/float64(max(frames, 1)))

	baseline := strategies[0].elapsed
	for _, s := range strategies {
		perFrame := s.elapsed / time.Duration(max(frames, 1))
		speedup := float64(baseline) / float64(max(s.elapsed, 1))

		color := chalk.Green
		if s.mismatches > 0 {
			color = chalk.Red
		} else if speedup < 1 {
			color = chalk.Yellow
		}

		log.Print(color)
		log.Printf("%-22s %12v/frame  x%.2f  mismatches: %d", s.name, perFrame, speedup, s.mismatches)
		log.Print(chalk.Reset)
	}
}
