package engine

import (
	"testing"
	"time"

	"github.com/quintic/fianchetto/internal/board"
)

// pickAll drains the move list in score order.
func pickAll(moves *board.MoveList, scores []int) []board.Move {
	out := make([]board.Move, 0, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		out = append(out, moves.Get(i))
	}
	return out
}

func TestTTMoveOrderedFirst(t *testing.T) {
	pos := mustParse(t, board.StartFEN)
	moves := pos.GenerateLegalMoves()

	ttMove := moves.Get(moves.Len() - 1)
	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(pos, moves, 0, ttMove)

	ordered := pickAll(moves, scores)
	if ordered[0] != ttMove {
		t.Errorf("first move = %v, want table move %v", ordered[0], ttMove)
	}
}

func TestCapturesOrderedByVictimThenAttacker(t *testing.T) {
	// Three captures on the board: pawn takes queen, knight takes rook,
	// rook takes pawn.
	pos := mustParse(t, "4k3/8/1r6/3q3p/2N1P3/8/8/4K2R w - - 0 1")
	moves := pos.GenerateLegalMoves()

	mo := NewMoveOrderer()
	scores := mo.ScoreMoves(pos, moves, 0, board.NoMove)
	ordered := pickAll(moves, scores)

	var captures []string
	for _, m := range ordered {
		if m.IsCapture(pos) {
			captures = append(captures, m.String())
		}
	}
	want := []string{"e4d5", "c4b6", "h1h5"}
	if len(captures) != len(want) {
		t.Fatalf("captures = %v, want %v", captures, want)
	}
	for i := range want {
		if captures[i] != want[i] {
			t.Errorf("capture %d = %s, want %s", i, captures[i], want[i])
		}
	}
}

func TestKillersOrderedBeforeQuiets(t *testing.T) {
	pos := mustParse(t, board.StartFEN)
	moves := pos.GenerateLegalMoves()

	killer := board.NewMove(board.G1, board.F3, board.FlagQuiet)
	if !moves.Contains(killer) {
		t.Fatal("killer move not legal in start position")
	}

	mo := NewMoveOrderer()
	mo.UpdateKillers(killer, 0)

	scores := mo.ScoreMoves(pos, moves, 0, board.NoMove)
	ordered := pickAll(moves, scores)
	if ordered[0] != killer {
		t.Errorf("first move = %v, want killer %v", ordered[0], killer)
	}
}

func TestKillerSlotsShift(t *testing.T) {
	mo := NewMoveOrderer()
	m1 := board.NewMove(board.G1, board.F3, board.FlagQuiet)
	m2 := board.NewMove(board.B1, board.C3, board.FlagQuiet)

	mo.UpdateKillers(m1, 3)
	mo.UpdateKillers(m2, 3)
	if mo.killers[3][0] != m2 || mo.killers[3][1] != m1 {
		t.Errorf("killers = %v, %v; want %v, %v", mo.killers[3][0], mo.killers[3][1], m2, m1)
	}

	// Re-recording the primary killer must not duplicate it.
	mo.UpdateKillers(m2, 3)
	if mo.killers[3][0] != m2 || mo.killers[3][1] != m1 {
		t.Error("re-recording primary killer shifted the slots")
	}
}

func TestHistoryOrdersQuiets(t *testing.T) {
	pos := mustParse(t, board.StartFEN)
	moves := pos.GenerateLegalMoves()

	preferred := board.NewMove(board.D2, board.D4, board.FlagDoublePush)
	mo := NewMoveOrderer()
	mo.UpdateHistory(preferred, 6, true)

	scores := mo.ScoreMoves(pos, moves, 0, board.NoMove)
	ordered := pickAll(moves, scores)
	if ordered[0] != preferred {
		t.Errorf("first move = %v, want history-boosted %v", ordered[0], preferred)
	}
}

func TestOrderingIsCorrectnessNeutral(t *testing.T) {
	// Same position, same depth, orderer state seeded differently: the
	// search score must not change, only the node count may.
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"

	run := func(seed bool) int {
		s := newTestSearcher(t)
		s.useTT = false
		if seed {
			s.orderer.UpdateKillers(board.NewMove(board.B1, board.C3, board.FlagQuiet), 1)
			s.orderer.UpdateHistory(board.NewMove(board.D2, board.D3, board.FlagQuiet), 5, true)
		}
		s.init(mustParse(t, fen), nil, time.Time{}, 0)
		_, score := s.search(3, -Infinity, Infinity)
		return score
	}

	if a, b := run(false), run(true); a != b {
		t.Errorf("score changed with ordering state: %d vs %d", a, b)
	}
}
