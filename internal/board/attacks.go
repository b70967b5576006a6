package board

// delta is a file/rank step. Working in file/rank space rather than raw
// square offsets makes board-edge wraparound impossible.
type delta struct {
	df, dr int
}

var (
	knightDeltas = [8]delta{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingDeltas = [8]delta{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}
	rookDirs   = [4]delta{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirs = [4]delta{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// shift returns the square at (file+df, rank+dr), or NoSquare if it falls off
// the board.
func shift(sq Square, d delta) Square {
	file := sq.File() + d.df
	rank := sq.Rank() + d.dr
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return NewSquare(file, rank)
}

// IsSquareAttacked reports whether any piece of the given color attacks sq.
// En-passant captures are not considered: they never attack a square in the
// sense needed for check and castling legality.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if !sq.IsValid() {
		return false
	}

	// Pawns. A white pawn attacks diagonally upward, so look one rank
	// below sq (and mirrored for black).
	pawnRank := -1
	if by == Black {
		pawnRank = 1
	}
	pawn := NewPiece(Pawn, by)
	for _, df := range [2]int{-1, 1} {
		from := shift(sq, delta{df, pawnRank})
		if from != NoSquare && p.Squares[from] == pawn {
			return true
		}
	}

	// Knights.
	knight := NewPiece(Knight, by)
	for _, d := range knightDeltas {
		from := shift(sq, d)
		if from != NoSquare && p.Squares[from] == knight {
			return true
		}
	}

	// King.
	king := NewPiece(King, by)
	for _, d := range kingDeltas {
		from := shift(sq, d)
		if from != NoSquare && p.Squares[from] == king {
			return true
		}
	}

	// Sliders: walk each ray until it hits a piece.
	if p.rayAttacked(sq, by, rookDirs[:], Rook) {
		return true
	}
	return p.rayAttacked(sq, by, bishopDirs[:], Bishop)
}

// rayAttacked walks the given directions from sq and reports whether the
// first piece met on any ray is an enemy slider of the given kind or a queen.
func (p *Position) rayAttacked(sq Square, by Color, dirs []delta, slider PieceType) bool {
	want := NewPiece(slider, by)
	queen := NewPiece(Queen, by)
	for _, d := range dirs {
		for from := shift(sq, d); from != NoSquare; from = shift(from, d) {
			piece := p.Squares[from]
			if piece == NoPiece {
				continue
			}
			if piece == want || piece == queen {
				return true
			}
			break
		}
	}
	return false
}
