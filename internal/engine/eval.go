// Package engine implements the material evaluator and the fixed-depth
// minimax search.
package engine

import (
	"github.com/hailam/chesslite/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// pieceValues is indexed by the magnitude of the piece code.
var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Evaluate returns the material balance of the position in centipawns from
// White's point of view: positive favors White.
func Evaluate(pos *board.Position) int {
	score := 0
	for _, piece := range pos.Squares {
		score += pieceScore(piece)
	}
	return score
}

// pieceScore returns the signed value of a single piece code.
func pieceScore(p board.Piece) int {
	v := pieceValues[p.Type()]
	if p.Color() == board.Black {
		return -v
	}
	return v
}

// Material returns the total value of the pieces of color c.
func Material(pos *board.Position, c board.Color) int {
	total := 0
	for _, piece := range pos.Squares {
		if piece.Color() == c {
			total += pieceValues[piece.Type()]
		}
	}
	return total
}
