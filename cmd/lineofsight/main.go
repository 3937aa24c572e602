package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"chosenoffset.com/lineofsight/internal/config"
	"chosenoffset.com/lineofsight/internal/demo"
	ebitenrender "chosenoffset.com/lineofsight/internal/render/ebiten"
	"chosenoffset.com/lineofsight/internal/world/level"
)

func main() {
	// Command-line flags
	settingsFile := flag.String("config", "lineofsight.json", "Settings file to load (defaults if missing)")
	levelFile := flag.String("level", "", "Level file to start on instead of a generated one")
	seed := flag.Int64("seed", 0, "Level generator seed (0 = random)")
	workers := flag.Int("workers", 0, "Goroutines resolving rays (0 = keep setting)")
	useIndex := flag.Bool("rtree", false, "Start with the R-tree broad phase")
	verbose := flag.Bool("v", false, "Log level generation")
	flag.Parse()

	if *verbose {
		level.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	settings, err := config.LoadSettings(*settingsFile)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *seed != 0 {
		settings.Scene.Seed = *seed
	}
	if *workers > 0 {
		settings.ScanLines.Workers = *workers
	}
	if *useIndex {
		settings.ScanLines.UseIndex = true
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	var game *demo.Game
	if *levelFile != "" {
		log.Printf("Loading level: %s", *levelFile)
		lvl, err := level.LoadLevel(*levelFile)
		if err != nil {
			log.Fatalf("Failed to load level: %v", err)
		}
		game, err = demo.NewGameWithLevel(settings, lvl, renderer, inputMgr)
		if err != nil {
			log.Fatalf("Failed to start demo: %v", err)
		}
	} else {
		game, err = demo.NewGame(settings, renderer, inputMgr)
		if err != nil {
			log.Fatalf("Failed to start demo: %v", err)
		}
	}

	engine.SetWindowSize(settings.Scene.Width, settings.Scene.Height)
	engine.SetWindowTitle("Line of Sight - L clip, T lines, R regenerate, Space r-tree")
	engine.SetWindowResizable(false)

	log.Println("Starting demo...")
	if err := engine.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
