package engine

import (
	"math"
	"strconv"
	"time"

	"github.com/hailam/chesslite/internal/board"
)

// DefaultDepth is the lookahead used below each root move.
const DefaultDepth = 2

// Result is the outcome of root move selection.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
}

// RootInfo reports the score of a single root move.
type RootInfo struct {
	Move  board.Move
	Score int
	Best  board.Move
	Nodes uint64
}

// Options configures an Engine.
type Options struct {
	Depth    int
	Strategy Strategy
}

// DefaultOptions returns the options used by the self-play driver.
func DefaultOptions() Options {
	return Options{Depth: DefaultDepth, Strategy: CopyMake}
}

// Difficulty represents a preset lookahead depth.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply below each root move
	Medium                   // 2 plies
	Hard                     // 3 plies
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   1,
	Medium: 2,
	Hard:   3,
}

// Engine picks moves by scoring every root move with a fixed-depth minimax.
type Engine struct {
	searcher *Searcher
	depth    int

	// Callbacks
	OnInfo func(RootInfo)
}

// NewEngine creates an engine with the given options.
// A negative depth is treated as zero.
func NewEngine(opts Options) *Engine {
	e := &Engine{searcher: NewSearcher(opts.Strategy)}
	e.SetDepth(opts.Depth)
	return e
}

// SetDepth sets the lookahead depth used below each root move.
func (e *Engine) SetDepth(depth int) {
	e.depth = max(depth, 0)
}

// Depth returns the configured lookahead depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetDifficulty sets the depth from a preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepth[d]; ok {
		e.SetDepth(depth)
	}
}

// SelectMove scores every root move of the side to move and returns the best
// one. Each candidate is applied to a copy of pos and searched with the
// opponent minimizing first. The first move with the strictly greatest score
// wins ties. The second result is false when the side to move has no moves,
// which is the end-of-game signal. pos is never modified.
func (e *Engine) SelectMove(pos *board.Position) (Result, bool) {
	e.searcher.Reset()
	start := time.Now()

	var moves board.MoveList
	pos.GenerateMovesInto(pos.SideToMove, &moves)
	if moves.Len() == 0 {
		return Result{Move: board.NoMove, Score: Evaluate(pos), Depth: e.depth}, false
	}

	bestMove := moves.Get(0)
	bestScore := math.MinInt

	for _, m := range moves.Slice() {
		child := *pos
		child.ApplyMove(m)
		score := e.searcher.Minimax(&child, e.depth, false)

		if score > bestScore {
			bestScore = score
			bestMove = m
		}

		if e.OnInfo != nil {
			e.OnInfo(RootInfo{
				Move:  m,
				Score: score,
				Best:  bestMove,
				Nodes: e.searcher.Nodes(),
			})
		}
	}

	return Result{
		Move:  bestMove,
		Score: bestScore,
		Depth: e.depth,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(start),
	}, true
}

// Search runs Minimax on pos with the engine's strategy and returns the score.
func (e *Engine) Search(pos *board.Position, depth int, maximizing bool) int {
	e.searcher.Reset()
	return e.searcher.Minimax(pos, depth, maximizing)
}

// Nodes returns the number of nodes visited by the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Perft counts the leaf nodes of the pseudo-legal move tree (for debugging
// move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GeneratePseudoLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a centipawn score to a signed pawn string ("+1.05").
func ScoreToString(score int) string {
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
