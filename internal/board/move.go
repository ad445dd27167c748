package board

import "fmt"

// Move encodes a move in 12 bits:
// bits 0-5:  from square (0-63)
// bits 6-11: to square (0-63)
// There are no flags: captures happen by overwrite and no special moves exist.
type Move uint16

// NoMove represents an invalid or null move.
const NoMove Move = 0

// MaxMoves is the number of moves a MoveList holds before it spills to the
// heap. Ordinary positions stay well below it; boards crowded with sliders
// can exceed it.
const MaxMoves = 256

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// IsCapture returns true if the destination holds a piece in pos.
func (m Move) IsCapture(pos *Position) bool {
	return !pos.IsEmpty(m.To())
}

// String returns the coordinate notation of the move (e.g., "e2e3").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// ParseMove parses a coordinate notation move string.
// The result is not checked against any position.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if from == to {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	return NewMove(from, to), nil
}

// MoveList is a list of moves backed by an inline array, so typical
// positions need no allocation. It grows without limit when needed.
type MoveList struct {
	buf   [MaxMoves]Move
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	if ml.moves == nil {
		ml.moves = ml.buf[:0]
	}
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear empties the list, keeping its capacity.
func (ml *MoveList) Clear() {
	ml.moves = ml.moves[:0]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves {
		if x == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice. It is only valid until the list is
// next modified.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	Moved    Piece
	Captured Piece
	Side     Color
}
