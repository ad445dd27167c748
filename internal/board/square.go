// Package board implements the 8x8 board, its pieces and the pseudo-legal
// move generator.
package board

import "fmt"

// Square represents a square on the board (0-63).
// Row-major from the top: row 0 holds Black's back rank, row 7 White's.
// Square 0 is a8 and square 63 is h1.
type Square uint8

// NoSquare marks an invalid square.
const NoSquare Square = 64

// NumSquares is the number of squares on the board.
const NumSquares = 64

// Row returns the row of the square (0-7, 0 = top).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column of the square (0-7, 0 = a-file).
func (sq Square) Col() int {
	return int(sq) & 7
}

// String returns the algebraic notation for the square (e.g., "e2").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '8'-sq.Row())
}

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	return Square(row*8 + col)
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// ParseSquare parses algebraic notation (e.g., "e2") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	col := int(s[0]) - 'a'
	row := '8' - int(s[1])

	if !InBounds(row, col) {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(row, col), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}
