package engine

import (
	"sync/atomic"
	"time"

	"github.com/quintic/fianchetto/internal/board"
)

// Score constants. Mate scores are offset by the ply at which the mate is
// delivered, so a mate in two outranks a mate in five and a looming mate is
// postponed as long as possible.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// stopCheckMask throttles deadline/stop polling to every 4096 nodes.
const stopCheckMask = 4095

// pvTable collects the principal variation during search using the
// triangular scheme: row p holds the best line found from ply p.
type pvTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

func (pv *pvTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = pv.length[ply+1]
}

// searcher owns the mutable state of one search: a private copy of the
// position, the move orderer, the hash history for repetition detection, and
// node statistics. The transposition table is shared across searches.
type searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer

	nodes uint64
	pv    pvTable

	// Hashes of every position on the path from the game root, used for
	// draw-by-repetition detection. Entries beyond the injected game
	// history are pushed and popped by the recursion.
	posHistory []uint64

	stopFlag  *atomic.Bool
	deadline  time.Time
	nodeLimit uint64

	// useTT gates table probes and stores. Disabled only by tests that
	// compare fixed-depth scores, where a deeper cached score is a
	// legitimate but unwanted improvement.
	useTT bool

	// ignoreStop suspends all cancellation checks. Set while searching
	// depth 1, which must run to completion so that a legal best move
	// exists before any deadline or stop request is honored.
	ignoreStop bool
}

func newSearcher(tt *TranspositionTable, stopFlag *atomic.Bool) *searcher {
	return &searcher{
		tt:       tt,
		orderer:  NewMoveOrderer(),
		stopFlag: stopFlag,
		useTT:    true,
	}
}

// init prepares the searcher for a new search from pos. rootHashes holds the
// hashes of earlier game positions so repetitions that straddle the root are
// seen.
func (s *searcher) init(pos *board.Position, rootHashes []uint64, deadline time.Time, nodeLimit uint64) {
	s.pos = pos.Copy()
	s.nodes = 0
	s.pv = pvTable{}
	s.deadline = deadline
	s.nodeLimit = nodeLimit
	s.posHistory = s.posHistory[:0]
	s.posHistory = append(s.posHistory, rootHashes...)
	s.posHistory = append(s.posHistory, s.pos.Hash)
}

// stopped reports whether the search must unwind. Every exit path still runs
// its UnmakeMove, so cancellation can never leave the board mutated.
func (s *searcher) stopped() bool {
	if s.ignoreStop {
		return false
	}
	if s.stopFlag.Load() {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.stopFlag.Store(true)
		return true
	}
	if !s.deadline.IsZero() && s.nodes&stopCheckMask == 0 && time.Now().After(s.deadline) {
		s.stopFlag.Store(true)
		return true
	}
	return false
}

// bestLine returns the principal variation of the last completed search.
func (s *searcher) bestLine() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// isDraw reports draw by fifty-move rule, insufficient material, or
// repetition. One repetition inside the search tree is scored as a draw:
// if a repetition is the best either side can do, the threefold result is
// forced anyway.
func (s *searcher) isDraw() bool {
	// Checkmate takes precedence over the fifty-move rule: a mating move
	// that also reaches clock 100 ends the game as a win, not a draw.
	if s.pos.HalfMoveClock >= 100 && !(s.pos.InCheck() && !s.pos.HasLegalMoves()) {
		return true
	}
	if s.pos.IsInsufficientMaterial() {
		return true
	}
	hash := s.pos.Hash
	for i := len(s.posHistory) - 2; i >= 0; i-- {
		if s.posHistory[i] == hash {
			return true
		}
	}
	return false
}

// search runs negamax to the given depth and returns the best move and its
// score. Meaningless results (score 0, NoMove) are returned if the search
// was stopped; the caller must discard them.
func (s *searcher) search(depth, alpha, beta int) (board.Move, int) {
	s.ignoreStop = depth <= 1
	score := s.negamax(depth, 0, alpha, beta)

	var best board.Move
	if s.pv.length[0] > 0 {
		best = s.pv.moves[0][0]
	}
	return best, score
}

// negamax searches the position to the given remaining depth inside the
// (alpha, beta) window. Scores are always from the perspective of the side
// to move at the node.
//
// Per node: probe the transposition table, classify terminal positions,
// otherwise expand the ordered legal moves with make/recurse/unmake, raise
// alpha, cut off when alpha meets beta, and store the result back in the
// table with the bound that the window outcome proves.
func (s *searcher) negamax(depth, ply, alpha, beta int) int {
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}
	if s.stopped() {
		return 0
	}
	s.nodes++

	s.pv.length[ply] = ply

	if ply > 0 && s.isDraw() {
		return 0
	}

	// Transposition table probe. An exact entry searched at least this
	// deep answers the node outright; bound entries narrow the window and
	// may prove a cutoff.
	var ttMove board.Move
	if s.useTT {
		if entry, ok := s.tt.Probe(s.pos.Hash); ok {
			ttMove = entry.Move
			if int(entry.Depth) >= depth && ply > 0 {
				score := scoreFromTT(int(entry.Score), ply)
				switch entry.Bound {
				case BoundExact:
					return score
				case BoundLower:
					if score > alpha {
						alpha = score
					}
				case BoundUpper:
					if score < beta {
						beta = score
					}
				}
				if alpha >= beta {
					return score
				}
			}
		}
	}

	moves := s.pos.GenerateLegalMoves()

	// No legal moves is terminal: mate if in check (preferring the
	// shorter mate via the ply offset), stalemate otherwise.
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			return -(MateScore - ply)
		}
		return 0
	}

	if depth == 0 {
		return Evaluate(s.pos)
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	origAlpha := alpha
	bestScore := -Infinity
	bestMove := board.NoMove

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		undo := s.pos.MakeMove(m)
		s.posHistory = append(s.posHistory, s.pos.Hash)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.posHistory = s.posHistory[:len(s.posHistory)-1]
		s.pos.UnmakeMove(m, undo)

		if !s.ignoreStop && s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			s.pv.update(ply, m)
		}
		if alpha >= beta {
			// Cutoff: remember quiet refutations for ordering.
			if !m.IsCapture(s.pos) && !m.IsPromotion() {
				s.orderer.UpdateKillers(m, ply)
				s.orderer.UpdateHistory(m, depth, true)
			}
			break
		}
	}

	bound := BoundExact
	switch {
	case bestScore >= beta:
		bound = BoundLower
	case bestScore <= origAlpha:
		bound = BoundUpper
	}
	if s.useTT {
		s.tt.Store(s.pos.Hash, depth, scoreToTT(bestScore, ply), bound, bestMove)
	}

	return bestScore
}
