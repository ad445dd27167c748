package board

// offset is a (row, col) step.
type offset struct {
	dRow, dCol int
}

var knightOffsets = [8]offset{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// slideDirections holds the orthogonal rays first, then the diagonals.
var slideDirections = [8]offset{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

var (
	rookDirections   = slideDirections[0:4]
	bishopDirections = slideDirections[4:8]
	queenDirections  = slideDirections[:]
)

// kingOffsets is row-delta major, skipping the null step.
var kingOffsets = [8]offset{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// pieceMoveFunc appends the candidate moves of the piece standing on from.
type pieceMoveFunc func(p *Position, from Square, us Color, ml *MoveList)

// pieceMoves dispatches move generation by piece type.
var pieceMoves = [King + 1]pieceMoveFunc{
	Pawn:   generatePawnMoves,
	Knight: generateKnightMoves,
	Bishop: generateBishopMoves,
	Rook:   generateRookMoves,
	Queen:  generateQueenMoves,
	King:   generateKingMoves,
}

// GenerateMoves generates all pseudo-legal moves for side.
// Moves that leave the side's own king capturable are included.
func (p *Position) GenerateMoves(side Color) *MoveList {
	ml := NewMoveList()
	p.GenerateMovesInto(side, ml)
	return ml
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves for the side to move.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	return p.GenerateMoves(p.SideToMove)
}

// GenerateMovesInto appends the moves of side to ml in row-major square order,
// then in each piece's direction order.
func (p *Position) GenerateMovesInto(side Color, ml *MoveList) {
	for sq := Square(0); sq < NumSquares; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece || piece.Color() != side {
			continue
		}
		pieceMoves[piece.Type()](p, sq, side, ml)
	}
}

// HasMoves reports whether side has at least one pseudo-legal move.
func (p *Position) HasMoves(side Color) bool {
	var ml MoveList
	p.GenerateMovesInto(side, &ml)
	return ml.Len() > 0
}

// canLandOn reports whether a piece of color us may finish on sq:
// the square is empty or holds an opposing piece.
func (p *Position) canLandOn(sq Square, us Color) bool {
	return p.Squares[sq].Color() != us
}

// generatePawnMoves adds the single forward step onto an empty square.
// Pawns never capture, never double-step and never promote.
func generatePawnMoves(p *Position, from Square, us Color, ml *MoveList) {
	row, col := from.Row()+us.Forward(), from.Col()
	if !InBounds(row, col) {
		return
	}
	to := NewSquare(row, col)
	if p.IsEmpty(to) {
		ml.Add(NewMove(from, to))
	}
}

func generateKnightMoves(p *Position, from Square, us Color, ml *MoveList) {
	generateSteps(p, from, us, knightOffsets[:], ml)
}

func generateKingMoves(p *Position, from Square, us Color, ml *MoveList) {
	generateSteps(p, from, us, kingOffsets[:], ml)
}

func generateRookMoves(p *Position, from Square, us Color, ml *MoveList) {
	generateSlides(p, from, us, rookDirections, ml)
}

func generateBishopMoves(p *Position, from Square, us Color, ml *MoveList) {
	generateSlides(p, from, us, bishopDirections, ml)
}

func generateQueenMoves(p *Position, from Square, us Color, ml *MoveList) {
	generateSlides(p, from, us, queenDirections, ml)
}

// generateSteps adds single-step moves for leapers (knight, king).
func generateSteps(p *Position, from Square, us Color, steps []offset, ml *MoveList) {
	row, col := from.Row(), from.Col()
	for _, s := range steps {
		r, c := row+s.dRow, col+s.dCol
		if !InBounds(r, c) {
			continue
		}
		to := NewSquare(r, c)
		if p.canLandOn(to, us) {
			ml.Add(NewMove(from, to))
		}
	}
}

// generateSlides walks each ray until the edge or the first occupied square.
// The blocker is included only when it belongs to the opponent.
func generateSlides(p *Position, from Square, us Color, dirs []offset, ml *MoveList) {
	for _, d := range dirs {
		r, c := from.Row(), from.Col()
		for {
			r += d.dRow
			c += d.dCol
			if !InBounds(r, c) {
				break
			}
			to := NewSquare(r, c)
			if p.IsEmpty(to) {
				ml.Add(NewMove(from, to))
				continue
			}
			if p.canLandOn(to, us) {
				ml.Add(NewMove(from, to))
			}
			break
		}
	}
}
