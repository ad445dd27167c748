package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chesslite/internal/board"
)

// Board layout on screen: two columns per square after a rank label.
const (
	boardLeft = 2
	cellWidth = 2
	fileRow   = 8
	statusRow = 10
)

// Theme holds the cell styles of the terminal board.
type Theme struct {
	Light  tcell.Style
	Dark   tcell.Style
	White  tcell.Color
	Black  tcell.Color
	Label  tcell.Style
	Status tcell.Style
}

// DefaultTheme returns the default terminal colors.
func DefaultTheme() Theme {
	return Theme{
		Light:  tcell.StyleDefault.Background(tcell.NewRGBColor(240, 217, 181)),
		Dark:   tcell.StyleDefault.Background(tcell.NewRGBColor(181, 136, 99)),
		White:  tcell.ColorWhite,
		Black:  tcell.ColorBlack,
		Label:  tcell.StyleDefault.Foreground(tcell.ColorGray),
		Status: tcell.StyleDefault.Bold(true),
	}
}

// TUI draws positions onto a tcell screen.
type TUI struct {
	screen tcell.Screen
	theme  Theme
}

// NewTUI creates a terminal renderer on an initialized screen.
func NewTUI(screen tcell.Screen) *TUI {
	return &TUI{screen: screen, theme: DefaultTheme()}
}

// Screen returns the underlying screen.
func (t *TUI) Screen() tcell.Screen {
	return t.screen
}

// Draw renders pos and a status line, then shows the screen.
func (t *TUI) Draw(pos *board.Position, status string) {
	t.screen.Clear()

	for row := 0; row < 8; row++ {
		t.screen.SetContent(0, row, rune('8'-row), nil, t.theme.Label)

		for col := 0; col < 8; col++ {
			style := t.theme.Light
			if (row+col)%2 == 1 {
				style = t.theme.Dark
			}

			piece := pos.At(row, col)
			glyph := ' '
			if piece != board.NoPiece {
				glyph = rune(piece.String()[0])
				if piece.Color() == board.White {
					style = style.Foreground(t.theme.White).Bold(true)
				} else {
					style = style.Foreground(t.theme.Black)
				}
			}

			x := boardLeft + col*cellWidth
			t.screen.SetContent(x, row, glyph, nil, style)
			t.screen.SetContent(x+1, row, ' ', nil, style)
		}
	}

	for col := 0; col < 8; col++ {
		t.screen.SetContent(boardLeft+col*cellWidth, fileRow, rune('a'+col), nil, t.theme.Label)
	}

	t.drawText(0, statusRow, status, t.theme.Status)
	t.screen.Show()
}

func (t *TUI) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// HandleEvents polls screen events until the screen is finalized. quit is
// called when the user presses q, Escape or Ctrl-C.
func (t *TUI) HandleEvents(quit func()) {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				quit()
			}
		}
	}
}
