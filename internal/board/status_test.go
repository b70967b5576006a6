package board

import (
	"errors"
	"testing"
)

func TestCheckmate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		mate bool
	}{
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true},
		{"smothered mate", "6rk/5Npp/8/8/8/8/8/K7 b - - 0 1", true},
		{"king can capture checker", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false},
		{"check but escapable", "4k3/4R3/8/8/8/8/8/4K3 b - - 0 1", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.IsCheckmate(); got != tc.mate {
				moves := pos.GenerateLegalMoves()
				t.Errorf("IsCheckmate = %v, want %v (in check: %v, %d legal moves)",
					got, tc.mate, pos.InCheck(), moves.Len())
			}
		})
	}
}

func TestStalemate(t *testing.T) {
	// Black king on h8 has no moves but is not in check.
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if pos.InCheck() {
		t.Fatal("stalemate position should not be check")
	}
	if !pos.IsStalemate() {
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			t.Logf("unexpected legal move: %v", moves.Get(i))
		}
		t.Error("IsStalemate = false, want true")
	}
	if pos.IsCheckmate() {
		t.Error("stalemate classified as checkmate")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "8/8/4k3/8/8/3K4/8/8 w - - 0 1", true},
		{"king and knight", "8/8/4k3/8/8/3KN3/8/8 w - - 0 1", true},
		{"king and bishop", "8/8/4kb2/8/8/3K4/8/8 w - - 0 1", true},
		{"king and rook", "8/8/4k3/8/8/3KR3/8/8 w - - 0 1", false},
		{"king and pawn", "8/8/4k3/8/8/3KP3/8/8 w - - 0 1", false},
		{"two minors", "8/8/4kb2/8/8/3KN3/8/8 w - - 0 1", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.IsInsufficientMaterial(); got != tc.want {
				t.Errorf("IsInsufficientMaterial = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		invalid bool
	}{
		{"starting position", StartFEN, false},
		{"missing black king", "8/8/8/8/8/8/8/K7 w - - 0 1", true},
		{"two white kings", "4k3/8/8/8/8/8/8/K3K3 w - - 0 1", true},
		{"pawn on back rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"opponent in check", "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			err = pos.Validate()
			if tc.invalid {
				if !errors.Is(err, ErrInvalidPosition) {
					t.Errorf("Validate = %v, want ErrInvalidPosition", err)
				}
			} else if err != nil {
				t.Errorf("Validate = %v, want nil", err)
			}
		})
	}
}
