package engine

import "github.com/quintic/fianchetto/internal/board"

// Move ordering bands. Ordering only decides which move the search tries
// first; it can never change the final result, only how often alpha-beta
// cuts off early.
const (
	scoreTTMove      = 1000000 // table's best move is tried before anything
	scoreCaptureBase = 100000
	scorePromotion   = 95000
	scoreKiller1     = 90000
	scoreKiller2     = 85000
)

// attackerCost ranks the capturing piece inside the MVV-LVA formula. The
// king captures last among equal victims, but material values would drown
// the victim term, so it gets a synthetic cost just above the queen's.
var attackerCost = [6]int{100, 320, 330, 500, 900, 1000}

// MoveOrderer scores moves so the most promising are searched first:
// the transposition-table move, then captures by most-valuable-victim /
// least-valuable-attacker, promotions, killer moves, and finally quiet moves
// by history score.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// NewMoveOrderer returns an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear forgets killers and decays history between searches.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// ScoreMoves assigns an ordering score to each move in the list.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove && m != board.NoMove {
		return scoreTTMove
	}

	if m.IsCapture(pos) {
		attacker := pos.PieceAt(m.From()).Type()
		victim := board.Pawn
		if !m.IsEnPassant() {
			victim = pos.PieceAt(m.To()).Type()
		}
		return scoreCaptureBase + board.PieceValue[victim] - attackerCost[attacker]
	}

	if m.IsPromotion() {
		return scorePromotion + board.PieceValue[m.Promotion()]
	}

	if ply < MaxPly {
		if m == mo.killers[ply][0] {
			return scoreKiller1
		}
		if m == mo.killers[ply][1] {
			return scoreKiller2
		}
	}

	return mo.history[m.From()][m.To()]
}

// PickMove moves the best-scored remaining move to position index, sorting
// lazily: most nodes cut off after the first move or two, so fully sorting
// the list would be wasted work.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff at the ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory rewards or punishes a quiet move for search-order purposes.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int, good bool) {
	bonus := depth * depth
	from, to := m.From(), m.To()
	if good {
		mo.history[from][to] += bonus
		if mo.history[from][to] > 80000 {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[from][to] -= bonus
		if mo.history[from][to] < -80000 {
			mo.history[from][to] = -80000
		}
	}
}
