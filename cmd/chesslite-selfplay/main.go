// Command chesslite-selfplay plays the engine against itself on the console
// and prints the board after every ply.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chesslite/internal/board"
	"github.com/hailam/chesslite/internal/game"
	"github.com/hailam/chesslite/internal/render"
	"github.com/hailam/chesslite/internal/storage"
)

var (
	depth       = flag.Int("depth", 0, "search depth below each root move (default from preferences, 2)")
	maxPlies    = flag.Int("max-plies", 0, "stop after this many plies (0 = no limit)")
	strategy    = flag.String("strategy", "", "search strategy: copy or undo")
	fen         = flag.String("fen", "", "start position (default: standard layout)")
	fensFile    = flag.String("fens", "", "file with one start position per line; plays them all")
	concurrency = flag.Int("concurrency", 0, "games played at once with -fens (0 = number of CPUs)")
	useTUI      = flag.Bool("tui", false, "draw the board in a full-screen terminal view")
	interval    = flag.Duration("interval", 300*time.Millisecond, "pause between plies with -tui")
	dbDir       = flag.String("db", "", "record games in the database at this directory")
	savePrefs   = flag.Bool("save-prefs", false, "store the effective settings as preferences (requires -db)")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *storage.Storage
	prefs := storage.DefaultPreferences()
	if *dbDir != "" {
		var err error
		store, err = storage.Open(*dbDir)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer store.Close()

		prefs, err = store.LoadPreferences()
		if err != nil {
			log.Fatalf("load preferences: %v", err)
		}
	}
	applyFlags(prefs)

	if *savePrefs && store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("Warning: Failed to save preferences: %v", err)
		}
	}

	opts, err := prefs.GameOptions()
	if err != nil {
		log.Fatal(err)
	}
	opts.StartFEN = *fen

	var records []*game.Record
	switch {
	case *fensFile != "":
		records, err = runBatch(ctx, opts, prefs.Concurrency)
	case *useTUI:
		records, err = runTUI(ctx, opts)
	default:
		records, err = runConsole(ctx, opts)
	}

	for _, rec := range records {
		if store == nil || rec == nil {
			continue
		}
		if err := store.RecordGame(rec); err != nil {
			log.Printf("Warning: Failed to record game %s: %v", rec.ID, err)
		}
	}

	if err != nil {
		if errors.Is(err, game.ErrAborted) {
			log.Print(err)
			return
		}
		log.Fatal(err)
	}
}

// applyFlags overlays the flags given on the command line onto prefs.
func applyFlags(prefs *storage.Preferences) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			prefs.Depth = *depth
		case "max-plies":
			prefs.MaxPlies = *maxPlies
		case "strategy":
			prefs.Strategy = *strategy
		case "concurrency":
			prefs.Concurrency = *concurrency
		}
	})
}

// runConsole plays one game, printing the board after every ply, and ends
// with "Game Over" when the side to move has no moves.
func runConsole(ctx context.Context, opts game.Options) ([]*game.Record, error) {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	opts.OnStart = func(_ *game.Record, pos *board.Position) {
		out.WriteString(render.Text(pos))
	}
	opts.OnPly = func(_ *game.Record, _ game.PlyRecord, pos *board.Position) {
		out.WriteString(render.Text(pos))
		out.Flush()
	}

	rec, err := game.Play(ctx, opts)
	if rec == nil {
		return nil, err
	}
	switch rec.Outcome {
	case game.OutcomeNoMoves:
		fmt.Fprintln(out, "Game Over")
	case game.OutcomeMaxPlies:
		fmt.Fprintf(out, "Stopped after %d plies\n", rec.Plies())
	}
	return []*game.Record{rec}, err
}

// runTUI plays one game on a full-screen terminal view. q, Escape or Ctrl-C
// aborts the game after the current ply.
func runTUI(ctx context.Context, opts game.Options) ([]*game.Record, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tui := render.NewTUI(screen)
	go tui.HandleEvents(cancel)

	opts.OnStart = func(_ *game.Record, pos *board.Position) {
		tui.Draw(pos, fmt.Sprintf("%s to move", pos.SideToMove))
	}
	opts.OnPly = func(_ *game.Record, ply game.PlyRecord, pos *board.Position) {
		tui.Draw(pos, fmt.Sprintf("%d. %s %s (%d)", ply.Ply, ply.Mover, ply.Move, ply.Score))
		select {
		case <-ctx.Done():
		case <-time.After(*interval):
		}
	}

	rec, err := game.Play(ctx, opts)
	if rec != nil && rec.Outcome != game.OutcomeAborted {
		final, _ := board.ParseFEN(rec.FinalFEN)
		tui.Draw(final, fmt.Sprintf("Game Over: %s after %d plies, press q", rec.Outcome, rec.Plies()))
		<-ctx.Done()
	}
	screen.Fini()

	if rec == nil {
		return nil, err
	}
	if errors.Is(err, game.ErrAborted) && ctx.Err() != nil {
		err = nil
	}
	return []*game.Record{rec}, err
}

// runBatch plays one game from every position in the -fens file.
func runBatch(ctx context.Context, opts game.Options, concurrency int) ([]*game.Record, error) {
	starts, err := readFENs(*fensFile)
	if err != nil {
		return nil, err
	}

	records, err := game.RunBatch(ctx, starts, opts, concurrency)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		fmt.Printf("%3d  %-9s %4d plies  score %6d  %s\n", i+1, rec.Outcome, rec.Plies(), rec.FinalScore, rec.FinalFEN)
	}
	return records, nil
}

// readFENs reads start positions, skipping blank lines and # comments.
func readFENs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(fens) == 0 {
		return nil, fmt.Errorf("%s: no positions", path)
	}
	return fens, nil
}
