package board

// UndoInfo records everything MakeMove destroys, so UnmakeMove can restore
// the position exactly: the captured piece and where it stood (the en-passant
// victim is not on the destination square), and the irreversible state fields.
type UndoInfo struct {
	Captured       Piece
	CapturedSq     Square
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
}

// castlingMask[sq] holds the rights cleared when a move touches sq. Moving
// the king clears both of that side's rights; moving or capturing a rook on
// its home square clears the matching one.
var castlingMask = [64]CastlingRights{
	A1: WhiteQueenSide,
	E1: WhiteKingSide | WhiteQueenSide,
	H1: WhiteKingSide,
	A8: BlackQueenSide,
	E8: BlackKingSide | BlackQueenSide,
	H8: BlackKingSide,
}

// rookCastleSquares maps a castling king destination to the rook's from/to.
var rookCastleSquares = map[Square][2]Square{
	G1: {H1, F1},
	C1: {A1, D1},
	G8: {H8, F8},
	C8: {A8, D8},
}

// MakeMove applies m to the position, mutating it in place, and returns the
// undo record. The move must be legal for the current position.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		Captured:       NoPiece,
		CapturedSq:     NoSquare,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
	}

	us := p.SideToMove
	from, to := m.From(), m.To()
	piece := p.Squares[from]

	// The old en-passant target expires with every move.
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	p.HalfMoveClock++
	if piece.Type() == Pawn {
		p.HalfMoveClock = 0
	}

	// Remove the captured piece first so the destination is free.
	capturedSq := to
	if m.IsEnPassant() {
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
	}
	if captured := p.Squares[capturedSq]; captured != NoPiece {
		undo.Captured = captured
		undo.CapturedSq = capturedSq
		p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[captured][capturedSq]
		p.HalfMoveClock = 0
	}

	// Move the piece, promoting on arrival if required.
	p.removePiece(from)
	p.Hash ^= zobristPiece[piece][from]
	placed := piece
	if m.IsPromotion() {
		placed = NewPiece(m.Promotion(), us)
	}
	p.setPiece(placed, to)
	p.Hash ^= zobristPiece[placed][to]

	// Castling also moves the rook.
	if m.IsCastling() {
		rook := rookCastleSquares[to]
		rookPiece := p.removePiece(rook[0])
		p.setPiece(rookPiece, rook[1])
		p.Hash ^= zobristPiece[rookPiece][rook[0]] ^ zobristPiece[rookPiece][rook[1]]
	}

	// A double push exposes the skipped square to en passant.
	if m.IsDoublePush() {
		if us == White {
			p.EnPassant = from + 8
		} else {
			p.EnPassant = from - 8
		}
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	// Castling rights decay when the king or a rook square is touched.
	if mask := castlingMask[from] | castlingMask[to]; p.CastlingRights&mask != 0 {
		p.Hash ^= zobristCastling[p.CastlingRights]
		p.CastlingRights &^= mask
		p.Hash ^= zobristCastling[p.CastlingRights]
	}

	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()
	p.Hash ^= zobristSideToMove
	p.Ply++

	return undo
}

// UnmakeMove reverses MakeMove, restoring every field of the position.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	from, to := m.From(), m.To()

	// Put the moved piece back, demoting a promotion to its pawn.
	piece := p.removePiece(to)
	if m.IsPromotion() {
		piece = NewPiece(Pawn, us)
	}
	p.setPiece(piece, from)

	if m.IsCastling() {
		rook := rookCastleSquares[to]
		rookPiece := p.removePiece(rook[1])
		p.setPiece(rookPiece, rook[0])
	}

	if undo.Captured != NoPiece {
		p.setPiece(undo.Captured, undo.CapturedSq)
	}

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	if us == Black {
		p.FullMoveNumber--
	}
	p.Ply--
}
