package engine

import (
	"strings"
	"testing"

	"github.com/quintic/fianchetto/internal/board"
)

// mirrorFEN flips a position top to bottom and swaps the colors, producing
// the exact mirror image with the other side to move.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		t.Fatalf("bad fen %q", fen)
	}

	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	swap := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z':
				b.WriteRune(r - 'a' + 'A')
			case r >= 'A' && r <= 'Z':
				b.WriteRune(r - 'A' + 'a')
			default:
				b.WriteRune(r)
			}
		}
		return b.String()
	}
	for i := range ranks {
		ranks[i] = swap(ranks[i])
	}

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}
	castling := fields[2]
	if castling != "-" {
		castling = swap(castling)
	}
	ep := fields[3]
	if ep != "-" {
		sq, err := board.ParseSquare(ep)
		if err != nil {
			t.Fatalf("bad ep square %q: %v", ep, err)
		}
		ep = sq.Mirror().String()
	}

	return strings.Join([]string{strings.Join(ranks, "/"), side, castling, ep, "0", "1"}, " ")
}

func TestEvaluateColorSymmetry(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 2 2",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen)
		mirrored := mustParse(t, mirrorFEN(t, fen))
		if a, b := Evaluate(pos), Evaluate(mirrored); a != b {
			t.Errorf("fen %q: eval %d, mirrored eval %d", fen, a, b)
		}
	}
}

func TestEvaluateStartPositionBalanced(t *testing.T) {
	pos := mustParse(t, board.StartFEN)
	if got := Evaluate(pos); got != 0 {
		t.Errorf("start position eval = %d, want 0", got)
	}
}

func TestEvaluateSideToMoveRelative(t *testing.T) {
	// White up a queen: positive for white to move, negative for black.
	white := mustParse(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := mustParse(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")

	if got := Evaluate(white); got <= 0 {
		t.Errorf("white to move eval = %d, want positive", got)
	}
	if got := Evaluate(black); got >= 0 {
		t.Errorf("black to move eval = %d, want negative", got)
	}
	if Evaluate(white) != -Evaluate(black) {
		t.Errorf("evals not negations: %d vs %d", Evaluate(white), Evaluate(black))
	}
}

func TestEvaluateMaterialDominates(t *testing.T) {
	// An extra rook should outweigh any positional term.
	pos := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if got := Evaluate(pos); got < 400 {
		t.Errorf("rook-up eval = %d, want at least 400", got)
	}
}

func TestEngineEvaluateTerminal(t *testing.T) {
	e := NewEngine(1)

	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"checkmate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", -MateScore},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0},
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
		{"king and knight", "4k3/8/8/8/8/8/8/4KN2 w - - 0 1", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			if got := e.Evaluate(pos); got != tc.want {
				t.Errorf("Evaluate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIsEndgame(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"start position", board.StartFEN, false},
		{"queens off", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - - 0 1", true},
		{"queen with rook", "4k3/8/8/8/8/8/8/R2QK3 w - - 0 1", false},
		{"lone queen each", "3qk3/8/8/8/8/8/8/3QK3 w - - 0 1", true},
		{"queen and one minor", "4k3/8/8/8/8/8/8/2NQK3 w - - 0 1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			if got := isEndgame(pos); got != tc.want {
				t.Errorf("isEndgame = %v, want %v", got, tc.want)
			}
		})
	}
}
