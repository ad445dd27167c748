package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chesslite/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	LastMoveColor color.RGBA
	Background    color.RGBA
	TextColor     color.RGBA
	MutedColor    color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:   color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:    color.RGBA{181, 136, 99, 255},  // Brown
		LastMoveColor: color.RGBA{180, 190, 100, 90},
		Background:    color.RGBA{40, 44, 52, 255},
		TextColor:     color.RGBA{220, 220, 220, 255},
		MutedColor:    color.RGBA{150, 150, 160, 255},
	}
}

// Renderer handles all drawing operations. Coordinates are logical pixels;
// scale converts them to device pixels on HiDPI screens.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	squareSize int
	scale      float64
}

// NewRenderer creates a new renderer.
func NewRenderer(squareSize int) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		theme:      DefaultTheme(),
		squareSize: squareSize,
		scale:      1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard draws the squares and the coordinate labels. Row 0 is drawn at
// the top, so White plays upward.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			x, y := r.SquareToScreen(board.NewSquare(row, col))
			vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), c, false)
		}
	}

	r.drawCoordinates(screen)
}

// drawCoordinates labels the files along the bottom row and the ranks along
// the left column, in the color of the opposite square.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := regularFace(coordFontSize * r.scale)
	if face == nil {
		return
	}

	for col := 0; col < 8; col++ {
		x, y := r.SquareToScreen(board.NewSquare(7, col))
		c := r.theme.DarkSquare
		if (7+col)%2 == 1 {
			c = r.theme.LightSquare
		}
		r.drawText(screen, string(rune('a'+col)), face, x+r.squareSize-10, y+r.squareSize-15, c)
	}

	for row := 0; row < 8; row++ {
		x, y := r.SquareToScreen(board.NewSquare(row, 0))
		c := r.theme.DarkSquare
		if row%2 == 1 {
			c = r.theme.LightSquare
		}
		r.drawText(screen, string(rune('8'-row)), face, x+3, y+2, c)
	}
}

// DrawLastMove highlights the origin and destination of m.
func (r *Renderer) DrawLastMove(screen *ebiten.Image, m board.Move) {
	if m == board.NoMove {
		return
	}
	r.highlightSquare(screen, m.From(), r.theme.LastMoveColor)
	r.highlightSquare(screen, m.To(), r.theme.LastMoveColor)
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), c, false)
}

// DrawPieces draws all pieces on the board.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position) {
	for sq := board.Square(0); sq < board.NumSquares; sq++ {
		piece := pos.PieceAt(sq)
		if piece.IsEmpty() {
			continue
		}
		x, y := r.SquareToScreen(sq)
		r.sprites.DrawPieceAt(screen, piece, int(r.s(x)), int(r.s(y)), r.scale)
	}
}

// DrawLines draws lines of text from (x, y) downward. The first line is bold.
func (r *Renderer) DrawLines(screen *ebiten.Image, x, y int, lines []string) {
	title := boldFace(titleFontSize * r.scale)
	body := regularFace(defaultFontSize * r.scale)
	if title == nil || body == nil {
		return
	}

	for i, line := range lines {
		face, c := body, r.theme.TextColor
		if i == 0 {
			face = title
		}
		if line == "" {
			continue
		}
		if line[0] == ' ' {
			c = r.theme.MutedColor
		}
		r.drawText(screen, line, face, x, y+i*22, c)
	}
}

// drawText draws s with its top-left corner at logical (x, y).
func (r *Renderer) drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(r.s(x)), float64(r.s(y)))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// SquareToScreen converts a board square to logical screen coordinates.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	return sq.Col() * r.squareSize, sq.Row() * r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
