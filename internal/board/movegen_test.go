package board

import (
	"math/rand"
	"strings"
	"testing"
)

func movesString(ml *MoveList) string {
	parts := make([]string, 0, ml.Len())
	for _, m := range ml.Slice() {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, " ")
}

// perft counts the leaf nodes of the pseudo-legal move tree.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.GeneratePseudoLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// randomPosition scatters pieces of both colors over the board.
func randomPosition(rng *rand.Rand) *Position {
	pos := &Position{}
	for sq := Square(0); sq < NumSquares; sq++ {
		if rng.Intn(3) != 0 {
			continue
		}
		pt := PieceType(1 + rng.Intn(6))
		c := Color(rng.Intn(2))
		pos.SetPiece(NewPiece(pt, c), sq)
	}
	pos.SideToMove = Color(rng.Intn(2))
	return pos
}

func TestStartingPositionMoves(t *testing.T) {
	pos := NewPosition()

	white := pos.GenerateMoves(White)
	wantWhite := "a2a3 b2b3 c2c3 d2d3 e2e3 f2f3 g2g3 h2h3 b1a3 b1c3 g1f3 g1h3"
	if got := movesString(white); got != wantWhite {
		t.Errorf("white moves = %q, want %q", got, wantWhite)
	}

	black := pos.GenerateMoves(Black)
	wantBlack := "b8a6 b8c6 g8f6 g8h6 a7a6 b7b6 c7c6 d7d6 e7e6 f7f6 g7g6 h7h6"
	if got := movesString(black); got != wantBlack {
		t.Errorf("black moves = %q, want %q", got, wantBlack)
	}
}

func TestStartingPositionMoveCountsByPiece(t *testing.T) {
	pos := NewPosition()
	counts := make(map[PieceType]int)
	for _, m := range pos.GenerateMoves(White).Slice() {
		counts[pos.PieceAt(m.From()).Type()]++
	}

	want := map[PieceType]int{Pawn: 8, Knight: 4}
	for pt := Pawn; pt <= King; pt++ {
		if counts[pt] != want[pt] {
			t.Errorf("%v moves = %d, want %d", pt, counts[pt], want[pt])
		}
	}
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 12},
		{2, 144},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}

	if !pos.Equal(NewPosition()) {
		t.Error("perft left the position modified")
	}
}

func TestRookRayStopsAtCapture(t *testing.T) {
	pos := &Position{}
	pos.SetPiece(WhiteRook, NewSquare(4, 4))
	pos.SetPiece(BlackPawn, NewSquare(4, 6))

	ml := pos.GenerateMoves(White)

	mustHave := []Move{
		NewMove(NewSquare(4, 4), NewSquare(4, 5)),
		NewMove(NewSquare(4, 4), NewSquare(4, 6)),
	}
	for _, m := range mustHave {
		if !ml.Contains(m) {
			t.Errorf("missing move %s", m)
		}
	}
	if ml.Contains(NewMove(NewSquare(4, 4), NewSquare(4, 7))) {
		t.Error("rook moved past the captured pawn")
	}

	want := "e4e5 e4e6 e4e7 e4e8 e4e3 e4e2 e4e1 e4d4 e4c4 e4b4 e4a4 e4f4 e4g4"
	if got := movesString(ml); got != want {
		t.Errorf("rook moves = %q, want %q", got, want)
	}
}

func TestPieceRules(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		side Color
		want string
	}{
		{
			name: "pawn blocked by enemy",
			fen:  "8/8/8/4p3/4P3/8/8/8 w",
			side: White,
			want: "",
		},
		{
			name: "pawn never captures diagonally",
			fen:  "8/8/8/3p1p2/4P3/8/8/8 w",
			side: White,
			want: "e4e5",
		},
		{
			name: "pawn on last row has no move",
			fen:  "4P3/8/8/8/8/8/8/4p3 w",
			side: White,
			want: "",
		},
		{
			name: "black pawn moves down",
			fen:  "8/4p3/8/8/8/8/8/8 b",
			side: Black,
			want: "e7e6",
		},
		{
			name: "knight in the corner",
			fen:  "8/8/8/8/8/8/2p5/N7 w",
			side: White,
			want: "a1b3 a1c2",
		},
		{
			name: "knight skips own pieces",
			fen:  "8/8/8/8/8/1P6/2P5/N7 w",
			side: White,
			want: "b3b4 c2c3",
		},
		{
			name: "bishop diagonals",
			fen:  "8/8/8/8/8/2p5/1B6/P7 w",
			side: White,
			want: "b2a3 b2c3 b2c1 a1a2",
		},
		{
			name: "king steps around own pieces",
			fen:  "8/8/8/8/8/8/PPp5/K7 w",
			side: White,
			want: "a2a3 b2b3 a1b1",
		},
		{
			name: "king may walk next to the enemy king",
			fen:  "8/8/8/8/8/8/1k6/K7 w",
			side: White,
			want: "a1a2 a1b2 a1b1",
		},
		{
			name: "queen combines rook and bishop",
			fen:  "8/8/8/8/8/8/PP6/QP6 w",
			side: White,
			want: "a2a3 b2b3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
			}
			if got := movesString(pos.GenerateMoves(tc.side)); got != tc.want {
				t.Errorf("moves = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateMovesDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		pos := randomPosition(rng)
		for _, side := range []Color{White, Black} {
			first := pos.GenerateMoves(side).Slice()
			second := pos.GenerateMoves(side).Slice()
			if len(first) != len(second) {
				t.Fatalf("position %s: lengths differ %d != %d", pos.FEN(), len(first), len(second))
			}
			for j := range first {
				if first[j] != second[j] {
					t.Fatalf("position %s: move %d differs: %s != %s", pos.FEN(), j, first[j], second[j])
				}
			}
		}
	}
}

func TestPawnMovesAreSingleQuietSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 300; i++ {
		pos := randomPosition(rng)
		for _, side := range []Color{White, Black} {
			for _, m := range pos.GenerateMoves(side).Slice() {
				if pos.PieceAt(m.From()).Type() != Pawn {
					continue
				}
				if !pos.IsEmpty(m.To()) {
					t.Fatalf("%s: pawn move %s lands on an occupied square", pos.FEN(), m)
				}
				if m.To().Col() != m.From().Col() {
					t.Fatalf("%s: pawn move %s changes column", pos.FEN(), m)
				}
				if m.To().Row()-m.From().Row() != side.Forward() {
					t.Fatalf("%s: pawn move %s is not one step forward", pos.FEN(), m)
				}
			}
		}
	}
}

func TestSliderRaysStopAtFirstBlocker(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	for i := 0; i < 300; i++ {
		pos := randomPosition(rng)
		for _, side := range []Color{White, Black} {
			ml := pos.GenerateMoves(side)
			for sq := Square(0); sq < NumSquares; sq++ {
				piece := pos.PieceAt(sq)
				if piece.Color() != side {
					continue
				}
				var dirs []offset
				switch piece.Type() {
				case Rook:
					dirs = rookDirections
				case Bishop:
					dirs = bishopDirections
				case Queen:
					dirs = queenDirections
				default:
					continue
				}
				for _, d := range dirs {
					r, c := sq.Row()+d.dRow, sq.Col()+d.dCol
					blocked := false
					for ; InBounds(r, c); r, c = r+d.dRow, c+d.dCol {
						to := NewSquare(r, c)
						m := NewMove(sq, to)
						target := pos.PieceAt(to)
						switch {
						case blocked:
							if ml.Contains(m) {
								t.Fatalf("%s: %s passes a blocker", pos.FEN(), m)
							}
						case target == NoPiece:
							if !ml.Contains(m) {
								t.Fatalf("%s: missing quiet slide %s", pos.FEN(), m)
							}
						default:
							blocked = true
							if ml.Contains(m) != (target.Color() != side) {
								t.Fatalf("%s: blocker move %s included=%v", pos.FEN(), m, ml.Contains(m))
							}
						}
					}
				}
			}
		}
	}
}

func TestHasMoves(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/8/8/P7/8 w")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.HasMoves(White) {
		t.Error("white pawn should have a move")
	}
	if pos.HasMoves(Black) {
		t.Error("black has no pieces and should have no moves")
	}

	blocked, err := ParseFEN("8/8/8/8/8/p7/P7/8 w")
	if err != nil {
		t.Fatal(err)
	}
	if blocked.HasMoves(White) || blocked.HasMoves(Black) {
		t.Error("facing pawns should have no moves")
	}
}

func TestCrowdedQueensOverflowInlineList(t *testing.T) {
	pos, err := ParseFEN("QQ2QQQQ/3Q3Q/Q6Q/Q6Q/2Q4Q/Q3Q2Q/1Q3Q1Q/1Q1Q2QQ w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	want := 0
	for sq := Square(0); sq < NumSquares; sq++ {
		if pos.PieceAt(sq) != WhiteQueen {
			continue
		}
		var one MoveList
		generateQueenMoves(pos, sq, White, &one)
		want += one.Len()
	}

	ml := pos.GenerateMoves(White)
	if ml.Len() != want {
		t.Fatalf("GenerateMoves returned %d moves, want %d", ml.Len(), want)
	}
	if ml.Len() <= MaxMoves {
		t.Fatalf("position yields only %d moves; it no longer exercises the spill path", ml.Len())
	}

	seen := make(map[Move]bool, ml.Len())
	for i, m := range ml.Slice() {
		if seen[m] {
			t.Fatalf("duplicate move %s", m)
		}
		seen[m] = true
		if ml.Get(i) != m {
			t.Fatalf("Get(%d) = %s, want %s", i, ml.Get(i), m)
		}
	}
	last := ml.Get(ml.Len() - 1)
	if !ml.Contains(last) {
		t.Errorf("Contains(%s) = false for a spilled move", last)
	}

	again := pos.GenerateMoves(White)
	if movesString(again) != movesString(ml) {
		t.Error("generation past the inline capacity is not deterministic")
	}

	ml.Clear()
	if ml.Len() != 0 {
		t.Errorf("Len after Clear = %d", ml.Len())
	}
	pos.GenerateMovesInto(White, ml)
	if ml.Len() != want {
		t.Errorf("refill after Clear = %d moves, want %d", ml.Len(), want)
	}
}
