// Package game drives self-play games: at each turn the engine selects a move
// for the side to move, the move is applied to the board and observers are
// notified, until the side to move has no moves.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chesslite/internal/board"
	"github.com/hailam/chesslite/internal/engine"
)

// ErrAborted is returned when the context is cancelled between turns.
var ErrAborted = errors.New("game aborted")

// Outcome describes why a game stopped.
type Outcome string

const (
	OutcomeOngoing  Outcome = "ongoing"
	OutcomeNoMoves  Outcome = "no_moves"
	OutcomeMaxPlies Outcome = "max_plies"
	OutcomeAborted  Outcome = "aborted"
)

// PlyRecord is one half-move of a game.
type PlyRecord struct {
	Ply   int           `json:"ply"`
	Mover string        `json:"mover"`
	Move  string        `json:"move"`
	Score int           `json:"score"`
	Nodes uint64        `json:"nodes"`
	Time  time.Duration `json:"time"`
}

// Record is the full history of a self-play game.
type Record struct {
	ID         string        `json:"id"`
	StartFEN   string        `json:"start_fen"`
	Depth      int           `json:"depth"`
	Strategy   string        `json:"strategy"`
	MaxPlies   int           `json:"max_plies"`
	Moves      []PlyRecord   `json:"moves"`
	FinalFEN   string        `json:"final_fen"`
	FinalScore int           `json:"final_score"`
	Outcome    Outcome       `json:"outcome"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Plies returns the number of half-moves played.
func (r *Record) Plies() int {
	return len(r.Moves)
}

// Options configures a self-play game.
type Options struct {
	Depth    int
	Strategy engine.Strategy
	// MaxPlies stops the game after that many half-moves; 0 means no limit.
	MaxPlies int
	// StartFEN is the starting position; empty means the standard layout.
	StartFEN string
	// OnStart is called once with the starting position.
	OnStart func(rec *Record, pos *board.Position)
	// OnPly is called after every applied move with the new position.
	OnPly func(rec *Record, ply PlyRecord, pos *board.Position)
}

// DefaultOptions returns the options of the classic self-play loop.
func DefaultOptions() Options {
	return Options{
		Depth:    engine.DefaultDepth,
		Strategy: engine.CopyMake,
	}
}

// Game is a single self-play game in progress.
type Game struct {
	opts   Options
	engine *engine.Engine
	pos    *board.Position
	record *Record
}

// New prepares a game from opts.
func New(opts Options) (*Game, error) {
	pos := board.NewPosition()
	if opts.StartFEN != "" {
		p, err := board.ParseFEN(opts.StartFEN)
		if err != nil {
			return nil, fmt.Errorf("start position: %w", err)
		}
		pos = p
	}
	if opts.MaxPlies < 0 {
		return nil, fmt.Errorf("max plies must not be negative: %d", opts.MaxPlies)
	}

	eng := engine.NewEngine(engine.Options{Depth: opts.Depth, Strategy: opts.Strategy})

	return &Game{
		opts:   opts,
		engine: eng,
		pos:    pos,
		record: &Record{
			ID:       uuid.NewString(),
			StartFEN: pos.FEN(),
			Depth:    eng.Depth(),
			Strategy: opts.Strategy.String(),
			MaxPlies: opts.MaxPlies,
			Outcome:  OutcomeOngoing,
		},
	}, nil
}

// ID returns the game's identifier.
func (g *Game) ID() string {
	return g.record.ID
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// Record returns the game record.
func (g *Game) Record() *Record {
	return g.record
}

// Step plays a single turn. It returns false once the game is over, in
// which case the record's outcome is set.
func (g *Game) Step() bool {
	if g.record.Outcome != OutcomeOngoing {
		return false
	}
	if g.opts.MaxPlies > 0 && g.record.Plies() >= g.opts.MaxPlies {
		g.finish(OutcomeMaxPlies)
		return false
	}

	mover := g.pos.SideToMove
	res, ok := g.engine.SelectMove(g.pos)
	if !ok {
		g.finish(OutcomeNoMoves)
		return false
	}

	g.pos.ApplyMove(res.Move)

	ply := PlyRecord{
		Ply:   g.record.Plies() + 1,
		Mover: mover.String(),
		Move:  res.Move.String(),
		Score: res.Score,
		Nodes: res.Nodes,
		Time:  res.Time,
	}
	g.record.Moves = append(g.record.Moves, ply)

	if g.opts.OnPly != nil {
		g.opts.OnPly(g.record, ply, g.pos.Copy())
	}
	return true
}

// Run plays turns until the game ends or ctx is cancelled. Cancellation is
// only observed between turns; a running search is never interrupted.
func (g *Game) Run(ctx context.Context) (*Record, error) {
	g.record.StartedAt = time.Now()
	if g.opts.OnStart != nil {
		g.opts.OnStart(g.record, g.pos.Copy())
	}

	for {
		select {
		case <-ctx.Done():
			g.finish(OutcomeAborted)
			return g.record, fmt.Errorf("%w after %d plies: %w", ErrAborted, g.record.Plies(), ctx.Err())
		default:
		}

		if !g.Step() {
			return g.record, nil
		}
	}
}

func (g *Game) finish(outcome Outcome) {
	g.record.Outcome = outcome
	g.record.FinalFEN = g.pos.FEN()
	g.record.FinalScore = engine.Evaluate(g.pos)
	if !g.record.StartedAt.IsZero() {
		g.record.Duration = time.Since(g.record.StartedAt)
	}
}

// Play runs a complete self-play game with opts.
func Play(ctx context.Context, opts Options) (*Record, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}
