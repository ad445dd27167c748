// Package uci implements a UCI-style line protocol around the engine.
// Searches run synchronously: the engine has no interruption point, so
// "go" answers before the next command is read.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/chesslite/internal/board"
	"github.com/hailam/chesslite/internal/engine"
	"github.com/hailam/chesslite/internal/render"
)

// MaxDepth is the largest search depth accepted through the protocol.
const MaxDepth = 8

// UCI implements the protocol handler.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	out      io.Writer
	quit     bool
}

// New creates a new protocol handler writing responses to out.
func New(eng *engine.Engine, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		out:      out,
	}
}

// Position returns a copy of the current position.
func (u *UCI) Position() *board.Position {
	return u.position.Copy()
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		u.Handle(scanner.Text())
		if u.quit {
			return nil
		}
	}

	return scanner.Err()
}

// Handle executes a single command line.
func (u *UCI) Handle(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.position = board.NewPosition()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "setoption":
		u.handleSetOption(args)
	case "quit":
		u.quit = true
	// Debug commands
	case "d":
		u.printf("%s", render.Text(u.position))
		u.printf("Fen: %s\n", u.position.FEN())
	case "eval":
		score := engine.Evaluate(u.position)
		u.printf("eval %d (%s)\n", score, engine.ScoreToString(score))
	case "moves":
		u.handleMoves()
	case "perft":
		u.handlePerft(args)
	default:
		u.printf("info string Unknown command: %s\n", cmd)
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessLite")
	u.println("id author ChessLite Team")
	u.println("")
	u.printf("option name Depth type spin default %d min 0 max %d\n", engine.DefaultDepth, MaxDepth)
	u.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e3 e7e6
//   - position fen <fen>
//   - position fen <fen> moves g1f3
//
// On any error the previous position is kept.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
		pos = p
	default:
		u.printf("info string Invalid position command: %s\n", args[0])
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, ok := findMove(pos, moveStr)
			if !ok {
				u.printf("info string Invalid move: %s\n", moveStr)
				return
			}
			pos.ApplyMove(move)
		}
	}

	u.position = pos
}

// findMove returns the generated move matching moveStr.
func findMove(pos *board.Position, moveStr string) (board.Move, bool) {
	m, err := board.ParseMove(moveStr)
	if err != nil {
		return board.NoMove, false
	}
	if !pos.GeneratePseudoLegalMoves().Contains(m) {
		return board.NoMove, false
	}
	return m, true
}

// handleGo selects a move for the side to move.
// Format: go [depth N]
func (u *UCI) handleGo(args []string) {
	depth := u.engine.Depth()
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, ok := parseDepth(args[i+1]); ok {
				depth = d
			} else {
				u.printf("info string Invalid depth: %s\n", args[i+1])
			}
			i++
		}
	}

	saved := u.engine.Depth()
	u.engine.SetDepth(depth)
	defer u.engine.SetDepth(saved)

	res, ok := u.engine.SelectMove(u.position)
	if !ok {
		u.println("info string no moves")
		u.println("bestmove 0000")
		return
	}

	ms := res.Time.Milliseconds()
	var nps uint64
	if ms > 0 {
		nps = res.Nodes * 1000 / uint64(ms)
	}
	u.printf("info depth %d score cp %d nodes %d nps %d time %d pv %s\n",
		res.Depth, res.Score, res.Nodes, nps, ms, res.Move)
	u.printf("bestmove %s\n", res.Move)
}

// handleSetOption handles "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "name":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "value":
			if i+1 < len(args) {
				value = args[i+1]
				i++
			}
		}
	}

	switch strings.ToLower(name) {
	case "depth":
		d, ok := parseDepth(value)
		if !ok {
			u.printf("info string Invalid depth: %s\n", value)
			return
		}
		u.engine.SetDepth(d)
	default:
		u.printf("info string Unknown option: %s\n", name)
	}
}

// parseDepth accepts depths in [0, MaxDepth].
func parseDepth(s string) (int, bool) {
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 || d > MaxDepth {
		return 0, false
	}
	return d, true
}

// handleMoves lists the pseudo-legal moves of the side to move.
func (u *UCI) handleMoves() {
	moves := u.position.GeneratePseudoLegalMoves()
	strs := make([]string, 0, moves.Len())
	for _, m := range moves.Slice() {
		strs = append(strs, m.String())
	}
	u.printf("moves %s\n", strings.Join(strs, " "))
}

// handlePerft runs perft to the given depth and prints per-move counts.
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	pos := u.position.Copy()
	var total uint64
	for _, m := range pos.GeneratePseudoLegalMoves().Slice() {
		undo := pos.MakeMove(m)
		n := u.engine.Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
		u.printf("%s: %d\n", m, n)
		total += n
	}
	u.printf("\nNodes searched: %d\n", total)
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}
