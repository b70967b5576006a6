package board

import (
	"strings"
	"testing"
)

// positionFields strips the clock fields from a FEN: transposed move orders
// reach the same position with different half-move clocks, and the clocks are
// deliberately not part of the hash.
func positionFields(fen string) string {
	return strings.Join(strings.Fields(fen)[:4], " ")
}

// applyLine plays a sequence of coordinate moves from the given position.
func applyLine(t *testing.T, pos *Position, line ...string) {
	t.Helper()
	for _, ms := range line {
		m, err := ParseMove(ms, pos)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", ms, err)
		}
		if !pos.GenerateLegalMoves().Contains(m) {
			t.Fatalf("move %q is not legal in\n%v", ms, pos)
		}
		pos.MakeMove(m)
	}
}

func TestHashTransposition(t *testing.T) {
	// Two different move orders reaching the same position must produce the
	// same hash. Both lines end on a knight move so neither leaves a live
	// en-passant target behind.
	a := NewPosition()
	applyLine(t, a, "d2d4", "d7d5", "g1f3", "g8f6")

	b := NewPosition()
	applyLine(t, b, "g1f3", "d7d5", "d2d4", "g8f6")

	if a.Hash != b.Hash {
		t.Errorf("transposed positions hash differently: %016x vs %016x", a.Hash, b.Hash)
	}
	if positionFields(a.ToFEN()) != positionFields(b.ToFEN()) {
		t.Errorf("positions differ: %s vs %s", a.ToFEN(), b.ToFEN())
	}
}

func TestHashReturnsToStart(t *testing.T) {
	pos := NewPosition()
	start := pos.Hash

	applyLine(t, pos, "g1f3", "g8f6", "f3g1", "f6g8")

	if pos.Hash != start {
		t.Errorf("hash after knight shuffle %016x, want start hash %016x", pos.Hash, start)
	}
}

func TestHashDistinguishesState(t *testing.T) {
	// Side to move, castling rights and en passant must all be hashed.
	wtm, _ := ParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	btm, _ := ParseFEN("4k3/8/8/8/8/8/8/4K2R b K - 0 1")
	if wtm.Hash == btm.Hash {
		t.Error("side to move not hashed")
	}

	noCastle, _ := ParseFEN("4k3/8/8/8/8/8/8/4K2R w - - 0 1")
	if wtm.Hash == noCastle.Hash {
		t.Error("castling rights not hashed")
	}

	noEP, _ := ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1")
	withEP, _ := ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if noEP.Hash == withEP.Hash {
		t.Error("en passant target not hashed")
	}
}

func TestIncrementalHashMatchesRecompute(t *testing.T) {
	pos := NewPosition()
	applyLine(t, pos,
		"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4",
		"f3d4", "g8f6", "b1c3", "a7a6", "c1e3", "e7e5")

	if pos.Hash != pos.ComputeHash() {
		t.Errorf("incremental hash %016x != recomputed %016x", pos.Hash, pos.ComputeHash())
	}
}
