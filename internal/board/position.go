package board

import (
	"errors"
	"fmt"
)

// CastlingRights holds the four independent castling flags as a bitfield.
type CastlingRights uint8

const (
	WhiteKingSide  CastlingRights = 1 << iota // K
	WhiteQueenSide                            // Q
	BlackKingSide                             // k
	BlackQueenSide                            // q
	NoCastling     CastlingRights = 0
	AllCastling    CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// CanCastle reports whether the given side still has the given castle right.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSide != 0
		}
		return cr&WhiteQueenSide != 0
	}
	if kingSide {
		return cr&BlackKingSide != 0
	}
	return cr&BlackQueenSide != 0
}

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSide != 0 {
		s += "K"
	}
	if cr&WhiteQueenSide != 0 {
		s += "Q"
	}
	if cr&BlackKingSide != 0 {
		s += "k"
	}
	if cr&BlackQueenSide != 0 {
		s += "q"
	}
	return s
}

// Position is the complete board state: an 8x8 mailbox where every square
// holds at most one piece, plus the side to move, castling rights, en-passant
// target, draw counters and the incrementally maintained zobrist hash.
//
// A Position is mutated in place by MakeMove/UnmakeMove; the search threads a
// single Position through its recursion and restores it on every exit path.
type Position struct {
	Squares [64]Piece

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // capture target square, NoSquare if none
	HalfMoveClock  int    // plies since last pawn move or capture
	FullMoveNumber int
	Ply            int // half-moves played from the root position

	// Zobrist hash of the position, maintained incrementally.
	Hash uint64

	// Cached king squares, kept in sync by MakeMove.
	KingSquare [2]Square
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy returns an independent deep copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for sq := A1; sq <= H8; sq++ {
		p.Squares[sq] = NoPiece
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Squares[sq]
}

// IsEmpty reports whether sq is unoccupied.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Squares[sq] == NoPiece
}

// setPiece places a piece on a square. Does not touch the hash.
func (p *Position) setPiece(piece Piece, sq Square) {
	p.Squares[sq] = piece
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// removePiece empties a square and returns what was there. Does not touch the
// hash.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.Squares[sq]
	p.Squares[sq] = NoPiece
	return piece
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsSquareAttacked(p.KingSquare[p.SideToMove], p.SideToMove.Other())
}

// Material returns the material balance in centipawns, positive for white.
func (p *Position) Material() int {
	score := 0
	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece || piece.Type() == King {
			continue
		}
		if piece.Color() == White {
			score += piece.Value()
		} else {
			score -= piece.Value()
		}
	}
	return score
}

// IsInsufficientMaterial reports whether neither side can possibly mate:
// bare kings, or king plus a single minor piece against a bare king.
func (p *Position) IsInsufficientMaterial() bool {
	minors := 0
	for sq := A1; sq <= H8; sq++ {
		switch p.Squares[sq].Type() {
		case NoPieceType, King:
		case Knight, Bishop:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}

// ErrInvalidPosition tags structural-invariant violations detected by
// Validate. Callers match it with errors.Is.
var ErrInvalidPosition = errors.New("invalid position")

// Validate checks the structural invariants a position must satisfy before it
// may be searched or evaluated.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece {
			continue
		}
		switch piece.Type() {
		case King:
			kings[piece.Color()]++
		case Pawn:
			if sq.Rank() == 0 || sq.Rank() == 7 {
				return fmt.Errorf("%w: pawn on %s", ErrInvalidPosition, sq)
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("%w: white has %d kings", ErrInvalidPosition, kings[White])
	}
	if kings[Black] != 1 {
		return fmt.Errorf("%w: black has %d kings", ErrInvalidPosition, kings[Black])
	}

	// The side not to move must not be left in check: the mover could
	// capture the king, so the position is unreachable.
	them := p.SideToMove.Other()
	if p.IsSquareAttacked(p.KingSquare[them], p.SideToMove) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}

	return nil
}

// String renders the board from white's point of view, with the game state
// fields below it.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Squares[NewSquare(file, rank)]
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}
