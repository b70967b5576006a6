package board

// moveRule generates the pseudo-legal moves of one piece kind from one
// square. The kinds form a closed set, so dispatch is a fixed table rather
// than dynamic dispatch.
type moveRule func(p *Position, from Square, ml *MoveList)

var moveRules = [6]moveRule{
	Pawn:   pawnMoves,
	Knight: knightMoves,
	Bishop: bishopMoves,
	Rook:   rookMoves,
	Queen:  queenMoves,
	King:   kingMoves,
}

// GenerateLegalMoves returns every strictly legal move for the side to move.
// Pseudo-legal moves are filtered with a scoped make/unmake: a move that
// leaves the mover's own king attacked is discarded. The position is restored
// before returning. An empty list means checkmate or stalemate; the caller
// distinguishes the two with InCheck.
func (p *Position) GenerateLegalMoves() *MoveList {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)

	us := p.SideToMove
	legal := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := p.MakeMove(m)
		if !p.IsSquareAttacked(p.KingSquare[us], p.SideToMove) {
			legal.Add(m)
		}
		p.UnmakeMove(m, undo)
	}
	return legal
}

// HasLegalMoves reports whether the side to move has any legal move, bailing
// out at the first one found.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)

	us := p.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := p.MakeMove(m)
		ok := !p.IsSquareAttacked(p.KingSquare[us], p.SideToMove)
		p.UnmakeMove(m, undo)
		if ok {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

func (p *Position) generatePseudoLegal(ml *MoveList) {
	us := p.SideToMove
	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		if piece != NoPiece && piece.Color() == us {
			moveRules[piece.Type()](p, sq, ml)
		}
	}
}

// addPawnMove expands a pawn arrival on the last rank into the four
// promotions, otherwise adds the move as given.
func addPawnMove(ml *MoveList, from, to Square, flag MoveFlag) {
	if to.Rank() == 0 || to.Rank() == 7 {
		for promo := Knight; promo <= Queen; promo++ {
			ml.Add(NewPromotion(from, to, promo))
		}
		return
	}
	ml.Add(NewMove(from, to, flag))
}

func pawnMoves(p *Position, from Square, ml *MoveList) {
	us := p.Squares[from].Color()
	forward := 1
	if us == Black {
		forward = -1
	}

	// Pushes. The double push requires both squares empty and the pawn on
	// its home rank.
	if one := shift(from, delta{0, forward}); one != NoSquare && p.IsEmpty(one) {
		addPawnMove(ml, from, one, FlagQuiet)
		if from.RelativeRank(us) == 1 {
			if two := shift(from, delta{0, 2 * forward}); two != NoSquare && p.IsEmpty(two) {
				ml.Add(NewMove(from, two, FlagDoublePush))
			}
		}
	}

	// Diagonal captures, including en passant onto the target square.
	for _, df := range [2]int{-1, 1} {
		to := shift(from, delta{df, forward})
		if to == NoSquare {
			continue
		}
		if target := p.Squares[to]; target != NoPiece && target.Color() != us {
			addPawnMove(ml, from, to, FlagQuiet)
		} else if to == p.EnPassant && p.EnPassant != NoSquare {
			ml.Add(NewMove(from, to, FlagEnPassant))
		}
	}
}

// leaperMoves generates moves for a piece that jumps directly to a fixed set
// of target squares (knight and king).
func leaperMoves(p *Position, from Square, deltas *[8]delta, ml *MoveList) {
	us := p.Squares[from].Color()
	for _, d := range deltas {
		to := shift(from, d)
		if to == NoSquare {
			continue
		}
		if target := p.Squares[to]; target == NoPiece || target.Color() != us {
			ml.Add(NewMove(from, to, FlagQuiet))
		}
	}
}

// sliderMoves walks each ray until blocked, capturing an enemy blocker.
func sliderMoves(p *Position, from Square, dirs []delta, ml *MoveList) {
	us := p.Squares[from].Color()
	for _, d := range dirs {
		for to := shift(from, d); to != NoSquare; to = shift(to, d) {
			target := p.Squares[to]
			if target == NoPiece {
				ml.Add(NewMove(from, to, FlagQuiet))
				continue
			}
			if target.Color() != us {
				ml.Add(NewMove(from, to, FlagQuiet))
			}
			break
		}
	}
}

func knightMoves(p *Position, from Square, ml *MoveList) {
	leaperMoves(p, from, &knightDeltas, ml)
}

func bishopMoves(p *Position, from Square, ml *MoveList) {
	sliderMoves(p, from, bishopDirs[:], ml)
}

func rookMoves(p *Position, from Square, ml *MoveList) {
	sliderMoves(p, from, rookDirs[:], ml)
}

func queenMoves(p *Position, from Square, ml *MoveList) {
	sliderMoves(p, from, rookDirs[:], ml)
	sliderMoves(p, from, bishopDirs[:], ml)
}

func kingMoves(p *Position, from Square, ml *MoveList) {
	leaperMoves(p, from, &kingDeltas, ml)

	// Castling. The king must not be in check, the squares between king and
	// rook must be empty, and the square the king crosses must not be
	// attacked. The destination square is covered by the legality filter.
	us := p.Squares[from].Color()
	them := us.Other()
	home := NewSquare(4, 0)
	if us == Black {
		home = NewSquare(4, 7)
	}
	if from != home || p.IsSquareAttacked(from, them) {
		return
	}

	rook := NewPiece(Rook, us)
	if p.CastlingRights.CanCastle(us, true) && p.Squares[from+3] == rook {
		f, g := from+1, from+2
		if p.IsEmpty(f) && p.IsEmpty(g) && !p.IsSquareAttacked(f, them) {
			ml.Add(NewMove(from, g, FlagKingCastle))
		}
	}
	if p.CastlingRights.CanCastle(us, false) && p.Squares[from-4] == rook {
		d, c, b := from-1, from-2, from-3
		if p.IsEmpty(d) && p.IsEmpty(c) && p.IsEmpty(b) && !p.IsSquareAttacked(d, them) {
			ml.Add(NewMove(from, c, FlagQueenCastle))
		}
	}
}
