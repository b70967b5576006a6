package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/quintic/fianchetto/internal/board"
)

// ErrNoLegalMoves is returned when a best move is requested in a position
// that is already checkmate or stalemate.
var ErrNoLegalMoves = errors.New("no legal moves")

// DefaultDepth is the search depth used when the caller sets no limit.
const DefaultDepth = 6

// aspiration window half-width in centipawns. The first few iterations are
// too jumpy to predict, so full windows are used below aspirationMinDepth.
const (
	aspirationWindow   = 50
	aspirationMinDepth = 5
)

// SearchLimits bounds a search. Zero values mean unlimited; at least one of
// Depth and MoveTime should be set unless Infinite is intended.
type SearchLimits struct {
	Depth    int
	MoveTime time.Duration
	Nodes    uint64
	Infinite bool
}

// SearchInfo reports the progress of one completed iteration.
type SearchInfo struct {
	Depth   int
	Score   int
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.Move
}

// SearchResult is the outcome of a finished search.
type SearchResult struct {
	BestMove board.Move
	Score    int
	Depth    int
	Nodes    uint64
	Elapsed  time.Duration
	PV       []board.Move
}

// Engine ties the searcher, the transposition table, and time management
// together behind a synchronous API. A search in progress can be cancelled
// from another goroutine with Stop.
type Engine struct {
	tt       *TranspositionTable
	searcher *searcher
	stopFlag atomic.Bool

	// OnInfo, when set, is called after each completed depth iteration.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a transposition table of ttSizeMB
// megabytes.
func NewEngine(ttSizeMB int) *Engine {
	e := &Engine{tt: NewTranspositionTable(ttSizeMB)}
	e.searcher = newSearcher(e.tt, &e.stopFlag)
	return e
}

// FindBestMove searches pos within limits and returns the best move found.
// rootHistory carries the zobrist hashes of earlier game positions so draws
// by repetition across the root are recognized; nil is fine for a fresh
// position.
//
// Iterative deepening: depths 1, 2, ... are searched in turn, each seeding
// the next through the transposition table and the move orderer. When the
// deadline cuts an iteration short, the result of the last completed depth
// stands. Depth 1 always runs to completion, so a legal best move is
// guaranteed whenever one exists.
func (e *Engine) FindBestMove(pos *board.Position, limits SearchLimits, rootHistory []uint64) (SearchResult, error) {
	if err := pos.Validate(); err != nil {
		return SearchResult{}, fmt.Errorf("find best move: %w", err)
	}
	if !pos.HasLegalMoves() {
		return SearchResult{}, ErrNoLegalMoves
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = DefaultDepth
	}
	if limits.Infinite {
		maxDepth = MaxPly - 1
	}

	tm := newTimeManager(limits.MoveTime)

	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.searcher.orderer.Clear()
	e.searcher.init(pos, rootHistory, tm.deadline, limits.Nodes)

	var result SearchResult
	start := time.Now()
	alpha, beta := -Infinity, Infinity

	for depth := 1; depth <= maxDepth; depth++ {
		prevBest := result.BestMove
		move, score := e.searcher.search(depth, alpha, beta)

		// Aspiration misses are re-searched with the full window at the
		// same depth.
		if depth >= aspirationMinDepth && (score <= alpha || score >= beta) {
			alpha, beta = -Infinity, Infinity
			move, score = e.searcher.search(depth, alpha, beta)
		}

		if e.stopFlag.Load() && depth > 1 {
			break
		}

		result = SearchResult{
			BestMove: move,
			Score:    score,
			Depth:    depth,
			Nodes:    e.searcher.nodes,
			Elapsed:  time.Since(start),
			PV:       e.searcher.bestLine(),
		}

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:   depth,
				Score:   score,
				Nodes:   e.searcher.nodes,
				Elapsed: result.Elapsed,
				PV:      result.PV,
			})
		}

		// A forced mate found: deeper search cannot improve on it.
		if IsMateScore(score) {
			break
		}
		tm.adjust(depth > 1 && move == prevBest)
		if tm.pastOptimum() {
			break
		}

		if depth+1 >= aspirationMinDepth {
			alpha, beta = score-aspirationWindow, score+aspirationWindow
		}
	}

	return result, nil
}

// Evaluate scores pos from the side to move's perspective, classifying
// terminal positions the way the search does: checkmate as a mate score,
// stalemate and dead draws as zero.
func (e *Engine) Evaluate(pos *board.Position) int {
	if !pos.HasLegalMoves() {
		if pos.InCheck() {
			return -MateScore
		}
		return 0
	}
	if pos.HalfMoveClock >= 100 || pos.IsInsufficientMaterial() {
		return 0
	}
	return Evaluate(pos)
}

// LegalMoves returns the legal moves for the side to move, for client-side
// validation and highlighting.
func (e *Engine) LegalMoves(pos *board.Position) *board.MoveList {
	return pos.GenerateLegalMoves()
}

// Stop cancels a search in progress. The search unwinds cooperatively and
// FindBestMove returns the best result completed so far.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear forgets all cached search state.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.orderer = NewMoveOrderer()
}

// TTStats returns transposition table occupancy and hit rate for reporting.
func (e *Engine) TTStats() (hashFull int, hitRate float64) {
	return e.tt.HashFull(), e.tt.HitRate()
}

// MateIn converts a mate score to moves-until-mate: positive when the side
// to move mates, negative when it is mated, zero for non-mate scores.
func MateIn(score int) int {
	if score > MateScore-MaxPly {
		return (MateScore - score + 1) / 2
	}
	if score < -MateScore+MaxPly {
		return -(MateScore + score + 1) / 2
	}
	return 0
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}
