package ui

import (
	"image"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chesslite/internal/board"
)

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int     // Display size (e.g., 80)
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
}

// NewSpriteManager creates a new sprite manager with pieces of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[board.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadPieces()
	return sm
}

var allPieces = []board.Piece{
	board.WhitePawn, board.WhiteKnight, board.WhiteBishop,
	board.WhiteRook, board.WhiteQueen, board.WhiteKing,
	board.BlackPawn, board.BlackKnight, board.BlackBishop,
	board.BlackRook, board.BlackQueen, board.BlackKing,
}

// loadPieces rasterises every glyph at renderScale times the display size.
func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for _, piece := range allPieces {
		rgba, err := rasterizeGlyph(piece, renderSize)
		if err != nil {
			log.Printf("Failed to render piece %s: %v", piece, err)
			continue
		}
		sm.pieces[piece] = ebiten.NewImageFromImage(rgba)
	}
}

// rasterizeGlyph renders the SVG glyph of piece into a size x size image.
func rasterizeGlyph(piece board.Piece, size int) (*image.RGBA, error) {
	svg, err := glyphSVG(piece)
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// DrawPieceAt draws a piece at the given pixel coordinates, scaled by scale.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int, scale float64) {
	sprite := sm.pieces[p]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := scale / sm.renderScale
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}
