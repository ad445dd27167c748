// Package ui implements a self-play viewer using Ebitengine.
package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/hailam/chesslite/internal/board"
	"github.com/hailam/chesslite/internal/engine"
	"github.com/hailam/chesslite/internal/game"
	"github.com/hailam/chesslite/internal/storage"
)

// UI Constants
const (
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = 300
	ScreenWidth  = BoardSize + PanelWidth
	ScreenHeight = BoardSize

	historyLines = 16
)

// DefaultPlyInterval is the pause between plies while playing.
const DefaultPlyInterval = 400 * time.Millisecond

// plyResult is what the search goroutine reports after one turn.
type plyResult struct {
	more   bool
	pos    *board.Position
	move   board.Move
	ply    game.PlyRecord
	record *game.Record
}

// Game implements ebiten.Game. It plays one self-play game at a time, a
// ply per interval, while drawing the current position.
type Game struct {
	opts     game.Options
	interval time.Duration

	game     *game.Game
	position *board.Position
	lastMove board.Move
	history  []game.PlyRecord
	outcome  game.Outcome

	thinking bool
	plyCh    chan plyResult
	lastPly  time.Time
	paused   bool

	storage  *storage.Storage
	renderer *Renderer
	scale    float64
}

// NewGame creates a viewer for games played with opts. store may be nil;
// when set, finished games are recorded in it.
func NewGame(opts game.Options, interval time.Duration, store *storage.Storage) (*Game, error) {
	if interval <= 0 {
		interval = DefaultPlyInterval
	}
	g := &Game{
		opts:     opts,
		interval: interval,
		plyCh:    make(chan plyResult, 1),
		storage:  store,
		renderer: NewRenderer(SquareSize),
		scale:    1.0,
	}
	if err := g.NewGameAction(); err != nil {
		return nil, err
	}
	return g, nil
}

// Update handles keyboard input and advances the game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && !g.thinking {
		if err := g.NewGameAction(); err != nil {
			return err
		}
	}

	g.checkPly()

	if g.thinking || g.outcome != game.OutcomeOngoing {
		return nil
	}
	step := g.paused && inpututil.IsKeyJustPressed(ebiten.KeyRight)
	if step || (!g.paused && time.Since(g.lastPly) >= g.interval) {
		g.startThinking()
	}
	return nil
}

// startThinking plays the next turn in a goroutine. The game is only
// touched by that goroutine until its result is received.
func (g *Game) startThinking() {
	g.thinking = true
	sg := g.game

	go func() {
		more := sg.Step()
		rec := sg.Record()
		res := plyResult{more: more, pos: sg.Position(), record: rec}
		if more {
			res.ply = rec.Moves[len(rec.Moves)-1]
			res.move, _ = board.ParseMove(res.ply.Move)
		}
		g.plyCh <- res
	}()
}

// checkPly applies a finished turn, if any.
func (g *Game) checkPly() {
	if !g.thinking {
		return
	}

	select {
	case res := <-g.plyCh:
		g.thinking = false
		g.lastPly = time.Now()
		g.position = res.pos
		if res.more {
			g.lastMove = res.move
			g.history = append(g.history, res.ply)
			return
		}
		g.outcome = res.record.Outcome
		log.Printf("[UI] game %s finished: %s after %d plies", res.record.ID, res.record.Outcome, res.record.Plies())
		g.recordGame(res.record)
	default:
	}
}

func (g *Game) recordGame(rec *game.Record) {
	if g.storage == nil {
		return
	}
	if err := g.storage.RecordGame(rec); err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}
}

// NewGameAction starts a new game from the configured start position.
func (g *Game) NewGameAction() error {
	sg, err := game.New(g.opts)
	if err != nil {
		return err
	}
	g.game = sg
	g.position = sg.Position()
	g.lastMove = board.NoMove
	g.history = nil
	g.outcome = game.OutcomeOngoing
	g.lastPly = time.Now()
	return nil
}

// Draw renders the board and the status panel.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)

	screen.Fill(g.renderer.Theme().Background)
	g.renderer.DrawBoard(screen)
	g.renderer.DrawLastMove(screen, g.lastMove)
	g.renderer.DrawPieces(screen, g.position)
	g.renderer.DrawLines(screen, BoardSize+20, 20, g.statusLines())
}

// statusLines returns the panel text. Lines starting with a space are muted.
func (g *Game) statusLines() []string {
	score := engine.Evaluate(g.position)
	lines := []string{
		"ChessLite self-play",
		fmt.Sprintf("Depth %d, %s", g.opts.Depth, g.opts.Strategy),
		fmt.Sprintf("Material %s", engine.ScoreToString(score)),
		g.stateLine(),
		"",
	}

	start := max(len(g.history)-historyLines, 0)
	for _, p := range g.history[start:] {
		lines = append(lines, fmt.Sprintf(" %3d. %-5s %s  %s", p.Ply, p.Mover, p.Move, engine.ScoreToString(p.Score)))
	}

	lines = append(lines, "", " Space pause, Right step, N new, Q quit")
	return lines
}

func (g *Game) stateLine() string {
	switch {
	case g.outcome == game.OutcomeNoMoves:
		return fmt.Sprintf("%s has no moves", g.position.SideToMove)
	case g.outcome == game.OutcomeMaxPlies:
		return fmt.Sprintf("Stopped after %d plies", len(g.history))
	case g.paused:
		return "Paused"
	case g.thinking:
		return fmt.Sprintf("%s thinking...", g.position.SideToMove)
	default:
		return fmt.Sprintf("%s to move", g.position.SideToMove)
	}
}

// Layout returns the game's screen dimensions in device pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// Close releases the storage, if any.
func (g *Game) Close() {
	if g.storage != nil {
		g.storage.Close()
	}
}
