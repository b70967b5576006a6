package board

import "math/rand/v2"

// Zobrist keys. Two positions reached by different move orders hash to the
// same value, which is what lets the transposition table recognize them.
// Keys are drawn from a fixed-seed PCG so hashes are stable across runs.
var (
	zobristPiece      [12][64]uint64
	zobristCastling   [16]uint64
	zobristEnPassant  [8]uint64 // keyed by file
	zobristSideToMove uint64
)

func init() {
	rng := rand.New(rand.NewPCG(0x6A09E667F3BCC908, 0xBB67AE8584CAA73B))

	for p := WhitePawn; p <= BlackKing; p++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[p][sq] = rng.Uint64()
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rng.Uint64()
	}
	zobristSideToMove = rng.Uint64()
}

// ComputeHash rebuilds the zobrist hash from scratch. MakeMove maintains the
// hash incrementally; this is the reference used after FEN parsing and in
// tests.
func (p *Position) ComputeHash() uint64 {
	var hash uint64
	for sq := A1; sq <= H8; sq++ {
		if piece := p.Squares[sq]; piece != NoPiece {
			hash ^= zobristPiece[piece][sq]
		}
	}
	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	return hash
}
