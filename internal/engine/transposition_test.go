package engine

import (
	"testing"

	"github.com/quintic/fianchetto/internal/board"
)

func TestTranspositionStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0xDEADBEEFCAFEBABE)
	move := board.NewMove(board.E2, board.E4, board.FlagDoublePush)

	if _, ok := tt.Probe(hash); ok {
		t.Fatal("probe hit on empty table")
	}

	tt.Store(hash, 5, 42, BoundExact, move)
	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("probe missed stored entry")
	}
	if entry.Score != 42 || entry.Depth != 5 || entry.Bound != BoundExact || entry.Move != move {
		t.Errorf("entry = %+v", entry)
	}

	// A different hash mapping to the same slot must not be reported.
	if _, ok := tt.Probe(hash ^ (tt.Size() << 20)); ok {
		t.Error("probe hit for a different position")
	}
}

func TestTranspositionReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	// Two hashes that collide in the index bits.
	h1 := uint64(0x1111)
	h2 := h1 + tt.Size()

	tt.Store(h1, 8, 10, BoundExact, board.NoMove)

	// Same generation: a shallower entry must not evict a deeper one.
	tt.Store(h2, 3, 20, BoundExact, board.NoMove)
	if _, ok := tt.Probe(h2); ok {
		t.Error("shallow entry evicted deeper entry in same generation")
	}
	if _, ok := tt.Probe(h1); !ok {
		t.Error("deep entry lost")
	}

	// Next generation: always replace, stale depth no longer protects.
	tt.NewSearch()
	tt.Store(h2, 3, 20, BoundExact, board.NoMove)
	if entry, ok := tt.Probe(h2); !ok || entry.Score != 20 {
		t.Error("fresh entry did not replace stale entry across generations")
	}
}

func TestTranspositionDeeperReplacesSameGeneration(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x2222)

	tt.Store(hash, 3, 10, BoundUpper, board.NoMove)
	tt.Store(hash, 6, 30, BoundExact, board.NoMove)

	entry, ok := tt.Probe(hash)
	if !ok || entry.Depth != 6 || entry.Score != 30 {
		t.Errorf("entry = %+v, want depth 6 score 30", entry)
	}
}

func TestTranspositionClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(0x3333, 4, 7, BoundLower, board.NoMove)
	tt.Clear()
	if _, ok := tt.Probe(0x3333); ok {
		t.Error("probe hit after Clear")
	}
}

func TestMateScoreAdjustment(t *testing.T) {
	// A mate found 3 plies below a node at ply 2 is stored relative to the
	// node and restored relative to the root wherever it is probed.
	rootRelative := MateScore - 5
	stored := scoreToTT(rootRelative, 2)
	if stored != MateScore-3 {
		t.Errorf("scoreToTT = %d, want %d", stored, MateScore-3)
	}

	// Probed from a node at ply 4, the same mate is now 7 plies from root.
	restored := scoreFromTT(stored, 4)
	if restored != MateScore-7 {
		t.Errorf("scoreFromTT = %d, want %d", restored, MateScore-7)
	}

	// Mated scores mirror.
	if got := scoreFromTT(scoreToTT(-(MateScore-5), 2), 2); got != -(MateScore - 5) {
		t.Errorf("mated roundtrip = %d, want %d", got, -(MateScore - 5))
	}

	// Ordinary scores pass through unchanged.
	for _, s := range []int{0, 137, -512, MateScore - MaxPly, -(MateScore - MaxPly)} {
		if got := scoreFromTT(scoreToTT(s, 9), 9); got != s {
			t.Errorf("roundtrip(%d) = %d", s, got)
		}
	}
}

func TestTableSizing(t *testing.T) {
	tt := NewTranspositionTable(1)
	n := tt.Size()
	if n == 0 || n&(n-1) != 0 {
		t.Errorf("size %d is not a power of two", n)
	}
	if NewTranspositionTable(4).Size() != 4*n {
		t.Error("4MB table is not four times the 1MB table")
	}
}
