package board

import (
	"testing"

	"github.com/hhhao/twisted-neurons/internal/testutil"
)

func TestStartPositionMoves(t *testing.T) {
	pos := NewPosition()
	moves := pos.LegalMoves()

	if len(moves) != 20 {
		t.Fatalf("LegalMoves() = %d moves, want 20", len(moves))
	}

	// Roster order, then mobility direction order.
	want := []string{
		"b1a3", "b1c3", "g1f3", "g1h3",
		"a2a3", "a2a4", "b2b3", "b2b4", "c2c3", "c2c4", "d2d3", "d2d4",
		"e2e3", "e2e4", "f2f3", "f2f4", "g2g3", "g2g4", "h2h3", "h2h4",
	}
	got := make([]string, len(moves))
	for i, m := range moves {
		got[i] = m.String()
	}
	testutil.AssertEqual(t, got, want, nil, "generation order")

	if pos.FEN() != StartFEN || pos.CanUndo() {
		t.Errorf("generation changed the position: %s", pos.FEN())
	}
}

func TestPromotionExpandsChoices(t *testing.T) {
	pos := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - -")
	got := moveStrings(pos.LegalMoves())
	want := []string{"a7a8b", "a7a8n", "a7a8q", "a7a8r", "e1d1", "e1d2", "e1e2", "e1f1", "e1f2"}
	testutil.AssertEqual(t, got, want, nil)
}

func TestCheckEvasions(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{"file check", "4r1k1/8/8/8/8/8/3P1P2/R3K3 w - -", []string{"e1d1", "e1f1"}},
		// d1 stays covered through the square the king leaves.
		{"rank check", "4k3/8/8/8/8/8/8/R3K2r w - -", []string{"e1d2", "e1e2", "e1f2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			testutil.AssertEqual(t, moveStrings(pos.LegalMoves()), tc.want, nil)
		})
	}
}

func TestCheckmate(t *testing.T) {
	pos := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - -")

	if !pos.InCheck(Black) {
		t.Fatal("expected black to be in check")
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// King on h8 can take the unprotected rook on g8.
	pos := mustFEN(t, "6Rk/8/8/8/8/8/8/K7 b - -")
	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	got := moveStrings(pos.LegalMoves())
	testutil.AssertEqual(t, got, []string{"h8g8", "h8h7"}, nil)
}

func TestStalemate(t *testing.T) {
	pos := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - -")
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("stalemate reported as checkmate")
	}
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []int64
	}{
		{"start", StartFEN, []int64{20, 400, 8902}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []int64{48, 2039}},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []int64{14, 191, 2812}},
		{"en passant pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3", []int64{6, 94}},
		{"promotions", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - -", []int64{24, 496}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			for i, want := range tc.nodes {
				if got := pos.Perft(i + 1); got != want {
					t.Errorf("perft(%d) = %d, want %d", i+1, got, want)
				}
			}
			if got := pos.FEN(); got != tc.fen {
				t.Errorf("perft changed the position to %q", got)
			}
		})
	}
}
