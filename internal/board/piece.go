package board

// Color represents the color of a piece or player.
// White is the side that moves first and plays toward row 0.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the row delta of a single pawn step for the color.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
// The numeric value is the magnitude of the piece code.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'.', 'p', 'n', 'b', 'r', 'q', 'k'}
	if pt > King {
		return '.'
	}
	return chars[pt]
}

// PieceValue holds the material value of each piece type in centipawns.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// Piece is a signed piece code: the sign is the color (positive White,
// negative Black) and the magnitude is the PieceType. Zero is an empty square.
type Piece int8

const (
	NoPiece Piece = 0

	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = -Piece(Pawn)
	BlackKnight Piece = -Piece(Knight)
	BlackBishop Piece = -Piece(Bishop)
	BlackRook   Piece = -Piece(Rook)
	BlackQueen  Piece = -Piece(Queen)
	BlackKing   Piece = -Piece(King)
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || pt > King || c >= NoColor {
		return NoPiece
	}
	if c == Black {
		return -Piece(pt)
	}
	return Piece(pt)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

// Color returns the Color of the piece. Empty squares have no color.
func (p Piece) Color() Color {
	switch {
	case p > 0:
		return White
	case p < 0:
		return Black
	default:
		return NoColor
	}
}

// IsEmpty returns true for the empty-square code.
func (p Piece) IsEmpty() bool {
	return p == NoPiece
}

// Flip returns the same piece type with the opposite color.
func (p Piece) Flip() Piece {
	return -p
}

// String returns the board symbol for the piece.
// Uppercase for white, lowercase for black, "." for an empty square.
func (p Piece) String() string {
	c := p.Type().Char()
	if p > 0 {
		c -= 'a' - 'A'
	}
	return string(c)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value returns the signed material value of the piece in centipawns.
// Black pieces count negatively.
func (p Piece) Value() int {
	v := PieceValue[p.Type()]
	if p < 0 {
		return -v
	}
	return v
}
