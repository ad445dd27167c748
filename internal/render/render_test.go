package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chesslite/internal/board"
)

func TestTextStartingPosition(t *testing.T) {
	want := "" +
		"r n b q k b n r \n" +
		"p p p p p p p p \n" +
		". . . . . . . . \n" +
		". . . . . . . . \n" +
		". . . . . . . . \n" +
		". . . . . . . . \n" +
		"P P P P P P P P \n" +
		"R N B Q K B N R \n" +
		"\n"
	if got := Text(board.NewPosition()); got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(40, 12)
	return s
}

func TestTUIDraw(t *testing.T) {
	screen := newSimScreen(t)
	defer screen.Fini()
	tui := NewTUI(screen)

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w")
	if err != nil {
		t.Fatal(err)
	}
	tui.Draw(pos, "ply 0")

	cell := func(x, y int) rune {
		r, _, _, _ := screen.GetContent(x, y)
		return r
	}

	if got := cell(boardLeft+4*cellWidth, 0); got != 'k' {
		t.Errorf("e8 = %q, want 'k'", got)
	}
	if got := cell(boardLeft, 7); got != 'R' {
		t.Errorf("a1 = %q, want 'R'", got)
	}
	if got := cell(boardLeft+cellWidth, 7); got != ' ' {
		t.Errorf("b1 = %q, want blank", got)
	}
	if got := cell(0, 0); got != '8' {
		t.Errorf("rank label = %q, want '8'", got)
	}
	if got := cell(boardLeft+7*cellWidth, fileRow); got != 'h' {
		t.Errorf("file label = %q, want 'h'", got)
	}

	status := ""
	for x := 0; x < 5; x++ {
		status += string(cell(x, statusRow))
	}
	if status != "ply 0" {
		t.Errorf("status = %q", status)
	}

	_, _, light, _ := screen.GetContent(boardLeft, 0)
	_, _, dark, _ := screen.GetContent(boardLeft+cellWidth, 0)
	_, lightBg, _ := light.Decompose()
	_, darkBg, _ := dark.Decompose()
	if lightBg == darkBg {
		t.Error("adjacent squares share a background")
	}
}

func TestTUIQuitKey(t *testing.T) {
	screen := newSimScreen(t)
	tui := NewTUI(screen)

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		tui.HandleEvents(func() {
			select {
			case <-quit:
			default:
				close(quit)
			}
		})
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	<-quit

	screen.Fini()
	<-done
}
