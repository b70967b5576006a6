// Package engine implements the search core: static evaluation, move
// ordering, a transposition table, and iterative-deepening negamax search
// with alpha-beta pruning.
package engine

import "github.com/quintic/fianchetto/internal/board"

// Piece-square tables, from the simplified evaluation function
// (https://www.chessprogramming.org/Simplified_Evaluation_Function).
// Tables are written from white's point of view with rank 8 on the first
// line, so a white piece on square sq indexes pst[sq.Mirror()] and a black
// piece indexes pst[sq].
var pstPawn = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pstKnight = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var pstBishop = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var pstRook = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var pstQueen = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var pstKingMidgame = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var pstKingEndgame = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var pstByType = [6]*[64]int{
	board.Pawn:   &pstPawn,
	board.Knight: &pstKnight,
	board.Bishop: &pstBishop,
	board.Rook:   &pstRook,
	board.Queen:  &pstQueen,
	board.King:   &pstKingMidgame,
}

// pieceSquare returns the positional term for a piece of the given type and
// color on sq.
func pieceSquare(pt board.PieceType, c board.Color, sq board.Square, endgame bool) int {
	table := pstByType[pt]
	if pt == board.King && endgame {
		table = &pstKingEndgame
	}
	if c == board.White {
		sq = sq.Mirror()
	}
	return table[sq]
}

// isEndgame applies the simplified-evaluation endgame rule: the endgame
// starts once both queens are off, or any remaining queen has at most one
// minor piece beside it.
func isEndgame(pos *board.Position) bool {
	var queens, rooks, minors [2]int
	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		c := piece.Color()
		switch piece.Type() {
		case board.Queen:
			queens[c]++
		case board.Rook:
			rooks[c]++
		case board.Knight, board.Bishop:
			minors[c]++
		}
	}
	for c := board.White; c <= board.Black; c++ {
		if queens[c] > 0 && (rooks[c] > 0 || minors[c] > 1) {
			return false
		}
	}
	return true
}

// Evaluate returns the static score of the position in centipawns from the
// perspective of the side to move (positive favors the mover).
//
// It is a pure function of the position: material plus piece-square terms,
// negated for black. Purity is what lets transposition-table entries be
// reused across move orders. Terminal positions (mate, stalemate, draws) are
// classified by the search, not here.
func Evaluate(pos *board.Position) int {
	endgame := isEndgame(pos)

	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		pt := piece.Type()
		c := piece.Color()

		v := board.PieceValue[pt] + pieceSquare(pt, c, sq, endgame)
		if c == board.White {
			score += v
		} else {
			score -= v
		}
	}

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
