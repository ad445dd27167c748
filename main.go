// ChessLite - watch the engine play itself, built with Ebitengine
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chesslite/internal/engine"
	"github.com/hailam/chesslite/internal/game"
	"github.com/hailam/chesslite/internal/storage"
	"github.com/hailam/chesslite/internal/ui"
)

var (
	depth    = flag.Int("depth", engine.DefaultDepth, "search depth below each root move")
	maxPlies = flag.Int("max-plies", 0, "stop each game after this many plies (0 = no limit)")
	strategy = flag.String("strategy", "copy", "search strategy: copy or undo")
	fen      = flag.String("fen", "", "start position (default: standard layout)")
	interval = flag.Duration("interval", ui.DefaultPlyInterval, "pause between plies")
	record   = flag.Bool("record", true, "record finished games in the local database")
)

func main() {
	flag.Parse()

	strat, err := engine.ParseStrategy(*strategy)
	if err != nil {
		log.Fatal(err)
	}

	var store *storage.Storage
	if *record {
		store, err = storage.NewStorage()
		if err != nil {
			log.Printf("Warning: Failed to initialize storage: %v", err)
			store = nil
		}
	}

	opts := game.Options{
		Depth:    *depth,
		Strategy: strat,
		MaxPlies: *maxPlies,
		StartFEN: *fen,
	}
	viewer, err := ui.NewGame(opts, *interval, store)
	if err != nil {
		log.Fatal(err)
	}
	defer viewer.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("ChessLite")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
