package board

import "fmt"

// Move packs a move into 16 bits:
// bits 0-5   from square
// bits 6-11  to square
// bits 12-15 move flag
//
// A Move is only meaningful relative to the position it was generated from;
// whether it captures is derived from that position, not stored in the move.
type Move uint16

// MoveFlag distinguishes special moves. Bit 3 marks promotions so the four
// promotion kinds share a single test.
type MoveFlag uint16

const (
	FlagQuiet MoveFlag = iota
	FlagDoublePush
	FlagKingCastle
	FlagQueenCastle
	FlagEnPassant
	FlagPromoKnight MoveFlag = 8 + iota - 5
	FlagPromoBishop
	FlagPromoRook
	FlagPromoQueen
)

const promoBit MoveFlag = 8

// NoMove is the zero move, used as a sentinel.
const NoMove Move = 0

// NewMove builds a move with the given flag.
func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

// NewPromotion builds a promotion move for the given target kind.
func NewPromotion(from, to Square, promo PieceType) Move {
	return NewMove(from, to, FlagPromoKnight+MoveFlag(promo-Knight))
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag(m >> 12)
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag()&promoBit != 0
}

// Promotion returns the kind promoted to. Only valid when IsPromotion.
func (m Move) Promotion() PieceType {
	return Knight + PieceType(m.Flag()&3)
}

// IsCastling reports whether the move is a castle (either side).
func (m Move) IsCastling() bool {
	f := m.Flag()
	return f == FlagKingCastle || f == FlagQueenCastle
}

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsDoublePush reports whether the move is a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m.Flag() == FlagDoublePush
}

// IsCapture reports whether the move captures a piece on the given position.
func (m Move) IsCapture(pos *Position) bool {
	return m.IsEnPassant() || pos.PieceAt(m.To()) != NoPiece
}

// String returns the move in coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses coordinate notation against a position, resolving the
// correct flag (castle, en passant, double push) from the board contents.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece on %s", from)
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece %q", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	switch piece.Type() {
	case King:
		if to.File()-from.File() == 2 {
			return NewMove(from, to, FlagKingCastle), nil
		}
		if from.File()-to.File() == 2 {
			return NewMove(from, to, FlagQueenCastle), nil
		}
	case Pawn:
		if to == pos.EnPassant && pos.EnPassant != NoSquare {
			return NewMove(from, to, FlagEnPassant), nil
		}
		if to.Rank()-from.Rank() == 2 || from.Rank()-to.Rank() == 2 {
			return NewMove(from, to, FlagDoublePush), nil
		}
	}

	return NewMove(from, to, FlagQuiet), nil
}

// MoveList is a fixed-capacity move buffer, avoiding allocation in the
// generator's inner loop. 256 covers any reachable position.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap exchanges two moves.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether the list holds m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the live moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
