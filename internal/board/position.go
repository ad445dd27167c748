package board

import "strings"

// Position is the board state: an 8x8 grid of piece codes and the side to move.
// It is a plain value; assigning or calling Copy yields an independent board.
type Position struct {
	Squares    [NumSquares]Piece
	SideToMove Color
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates the starting position.
func NewPosition() *Position {
	p := &Position{}
	p.Initialize()
	return p
}

// Initialize resets the grid to the starting layout with White to move.
func (p *Position) Initialize() {
	p.Clear()
	for col := 0; col < 8; col++ {
		p.Squares[NewSquare(0, col)] = NewPiece(backRank[col], Black)
		p.Squares[NewSquare(1, col)] = BlackPawn
		p.Squares[NewSquare(6, col)] = WhitePawn
		p.Squares[NewSquare(7, col)] = NewPiece(backRank[col], White)
	}
	p.SideToMove = White
}

// Clear empties every square and gives the move to White.
func (p *Position) Clear() {
	p.Squares = [NumSquares]Piece{}
	p.SideToMove = White
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Squares[sq]
}

// At returns the piece at (row, col).
func (p *Position) At(row, col int) Piece {
	return p.Squares[NewSquare(row, col)]
}

// SetPiece places a piece on a square, replacing whatever was there.
func (p *Position) SetPiece(piece Piece, sq Square) {
	p.Squares[sq] = piece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Squares[sq] == NoPiece
}

// ApplyMove relocates the piece on m.From() to m.To(), overwriting the
// destination, and passes the move to the other side. The move is not
// validated; it must come from GenerateMoves for this exact position.
func (p *Position) ApplyMove(m Move) {
	from, to := m.From(), m.To()
	p.Squares[to] = p.Squares[from]
	p.Squares[from] = NoPiece
	p.SideToMove = p.SideToMove.Other()
}

// MakeMove applies m in place and returns what UnmakeMove needs to restore
// the position exactly.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		Moved:    p.Squares[m.From()],
		Captured: p.Squares[m.To()],
		Side:     p.SideToMove,
	}
	p.ApplyMove(m)
	return undo
}

// UnmakeMove reverts a move made with MakeMove.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.Squares[m.From()] = undo.Moved
	p.Squares[m.To()] = undo.Captured
	p.SideToMove = undo.Side
}

// FlipColors swaps the color of every piece in place and the side to move.
// Pieces keep their squares.
func (p *Position) FlipColors() {
	for sq := range p.Squares {
		p.Squares[sq] = p.Squares[sq].Flip()
	}
	p.SideToMove = p.SideToMove.Other()
}

// Equal reports whether two positions have the same grid and side to move.
func (p *Position) Equal(other *Position) bool {
	return p.Squares == other.Squares && p.SideToMove == other.SideToMove
}

// Count returns the number of pieces of the given type and color on the board.
func (p *Position) Count(pt PieceType, c Color) int {
	want := NewPiece(pt, c)
	n := 0
	for _, piece := range p.Squares {
		if piece == want {
			n++
		}
	}
	return n
}

// String returns a simple text diagram of the position, top row first.
func (p *Position) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteByte(' ')
		for col := 0; col < 8; col++ {
			sb.WriteString(p.At(row, col).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(p.SideToMove.String())
	sb.WriteString(" to move\n")
	return sb.String()
}
