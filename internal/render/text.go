// Package render turns board positions into text for the console and for
// terminal screens.
package render

import (
	"strings"

	"github.com/hailam/chesslite/internal/board"
)

// Text renders the grid one row per line, top row first, each square
// followed by a space, and ends with a blank line.
func Text(pos *board.Position) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sb.WriteString(pos.At(row, col).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}
