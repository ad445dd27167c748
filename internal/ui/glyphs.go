package ui

import (
	"fmt"

	"github.com/hailam/chesslite/internal/board"
)

// Piece glyphs on a 45x45 canvas. %[1]s is the body fill, %[2]s the outline.
const glyphHeader = `<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">` +
	`<g fill="%[1]s" stroke="%[2]s" stroke-width="1.5" stroke-linejoin="round" stroke-linecap="round">`

const glyphFooter = `</g></svg>`

var glyphBodies = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="5"/>` +
		`<path d="M 18 36 L 19.5 21 L 25.5 21 L 27 36 Z"/>` +
		`<path d="M 12 39 L 33 39 L 33 35.5 L 12 35.5 Z"/>`,

	board.Knight: `<path d="M 22 10 C 32.5 11 38.5 18 38 39 L 15 39 C 15 30 25 32.5 23 18"/>` +
		`<path d="M 24 18 C 24.4 20.9 18.5 25.4 16 27 C 13 29 13.2 31.3 11 31 C 10 30.1 12.4 28 11 28 C 10 28 11.2 29.2 10 30 C 9 30 6 31 6 26 C 6 24 12 14 12 14 C 12 14 13.9 12.1 14 10.5 C 13.3 9.5 13.5 8.5 13.5 7.5 C 14.5 6.5 16.5 10 16.5 10 L 18.5 10 C 18.5 10 19.3 8 21 7 C 22 7 22 10 22 10"/>` +
		`<circle cx="12" cy="25.5" r="0.5"/>`,

	board.Bishop: `<path d="M 9 36 C 12.4 35 19.1 36.4 22.5 34 C 25.9 36.4 32.6 35 36 36 C 36 36 37.6 36.5 39 38 C 38.3 39 37.4 39 36 38.5 C 32.6 37.5 25.9 39 22.5 37.5 C 19.1 39 12.4 37.5 9 38.5 C 7.6 39 6.6 39 6 38 C 7.4 36.1 9 36 9 36 Z"/>` +
		`<path d="M 15 32 C 17.5 34.5 27.5 34.5 30 32 C 30.5 30.5 30 30 30 30 C 30 27.5 27.5 26 27.5 26 C 33 24.5 33.5 14.5 22.5 10.5 C 11.5 14.5 12 24.5 17.5 26 C 17.5 26 15 27.5 15 30 C 15 30 14.5 30.5 15 32 Z"/>` +
		`<circle cx="22.5" cy="8" r="2.5"/>`,

	board.Rook: `<path d="M 9 39 L 36 39 L 36 36 L 9 36 Z"/>` +
		`<path d="M 12.5 32 L 14 29.5 L 31 29.5 L 32.5 32 Z"/>` +
		`<path d="M 12 36 L 12 32 L 33 32 L 33 36 Z"/>` +
		`<path d="M 14 29.5 L 14 16.5 L 31 16.5 L 31 29.5 Z"/>` +
		`<path d="M 11 14 L 11 9 L 15 9 L 15 11 L 20 11 L 20 9 L 25 9 L 25 11 L 30 11 L 30 9 L 34 9 L 34 14 L 31 16.5 L 14 16.5 Z"/>`,

	board.Queen: `<circle cx="6" cy="12" r="2.75"/>` +
		`<circle cx="14" cy="9" r="2.75"/>` +
		`<circle cx="22.5" cy="8" r="2.75"/>` +
		`<circle cx="31" cy="9" r="2.75"/>` +
		`<circle cx="39" cy="12" r="2.75"/>` +
		`<path d="M 9 26 C 17.5 24.5 30 24.5 36 26 L 38.5 13.5 L 31 25 L 30.7 10.9 L 25.5 24.5 L 22.5 10 L 19.5 24.5 L 14.3 10.9 L 14 25 L 6.5 13.5 L 9 26 Z"/>` +
		`<path d="M 9 26 C 9 28 10.5 28 11.5 30 C 12.5 31.5 12.5 31 12 33.5 C 10.5 34.5 11 36 11 36 C 9.5 37.5 11 38.5 11 38.5 C 17.5 39.5 27.5 39.5 34 38.5 C 34 38.5 35.5 37.5 34 36 C 34 36 34.5 34.5 33 33.5 C 32.5 31 32.5 31.5 33.5 30 C 34.5 28 36 28 36 26 C 27.5 24.5 17.5 24.5 9 26 Z"/>`,

	board.King: `<path d="M 22.5 11.6 L 22.5 6 M 20 8 L 25 8"/>` +
		`<path d="M 22.5 25 C 22.5 25 27 17.5 25.5 14.5 C 25.5 14.5 24.5 12 22.5 12 C 20.5 12 19.5 14.5 19.5 14.5 C 18 17.5 22.5 25 22.5 25"/>` +
		`<path d="M 11.5 37 C 17 40.5 27 40.5 32.5 37 L 32.5 30 C 32.5 30 41.5 25.5 38.5 19.5 C 34.5 13 25 16 22.5 23.5 L 22.5 27 L 22.5 23.5 C 19 16 9.5 13 6.5 19.5 C 3.5 25.5 11.5 29.5 11.5 29.5 L 11.5 37 Z"/>`,
}

// glyphColors returns the fill and outline used for pieces of color c.
func glyphColors(c board.Color) (fill, stroke string) {
	if c == board.White {
		return "#f8f8f8", "#1e1e1e"
	}
	return "#2b2b2b", "#000000"
}

// glyphSVG returns the SVG document for piece.
func glyphSVG(piece board.Piece) (string, error) {
	body, ok := glyphBodies[piece.Type()]
	if !ok {
		return "", fmt.Errorf("no glyph for piece %d", piece)
	}
	fill, stroke := glyphColors(piece.Color())
	return fmt.Sprintf(glyphHeader, fill, stroke) + body + glyphFooter, nil
}
