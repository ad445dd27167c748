package engine

import (
	"fmt"
	"math"

	"github.com/hailam/chesslite/internal/board"
)

// Strategy selects how the searcher isolates sibling branches.
type Strategy int

const (
	// CopyMake searches every child on its own copy of the board.
	CopyMake Strategy = iota
	// MakeUnmake mutates the board in place and restores it after each child.
	MakeUnmake
)

// String returns the strategy name used in flags and preferences.
func (s Strategy) String() string {
	switch s {
	case CopyMake:
		return "copy"
	case MakeUnmake:
		return "undo"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name produced by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "copy", "":
		return CopyMake, nil
	case "undo":
		return MakeUnmake, nil
	default:
		return CopyMake, fmt.Errorf("unknown search strategy: %q", name)
	}
}

// Searcher performs a brute-force fixed-depth minimax search.
// Every node up to the depth limit is visited: there is no pruning, no move
// ordering and no transposition table. A Searcher is not safe for concurrent use.
type Searcher struct {
	strategy Strategy
	nodes    uint64
}

// NewSearcher creates a new searcher.
func NewSearcher(strategy Strategy) *Searcher {
	return &Searcher{strategy: strategy}
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Minimax returns the minimax value of pos searched depth plies deep.
// Leaves, and positions where the side to move has no moves, are scored with
// Evaluate. The maximizing flag alternates at each ply.
//
// With MakeUnmake the position is modified during the call and restored
// before it returns.
func (s *Searcher) Minimax(pos *board.Position, depth int, maximizing bool) int {
	s.nodes++

	if depth <= 0 {
		return Evaluate(pos)
	}

	var moves board.MoveList
	pos.GenerateMovesInto(pos.SideToMove, &moves)
	if moves.Len() == 0 {
		return Evaluate(pos)
	}

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for _, m := range moves.Slice() {
		score := s.child(pos, m, depth-1, !maximizing)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}

// child searches the position reached by m.
func (s *Searcher) child(pos *board.Position, m board.Move, depth int, maximizing bool) int {
	if s.strategy == MakeUnmake {
		undo := pos.MakeMove(m)
		score := s.Minimax(pos, depth, maximizing)
		pos.UnmakeMove(m, undo)
		return score
	}

	next := *pos
	next.ApplyMove(m)
	return s.Minimax(&next, depth, maximizing)
}
