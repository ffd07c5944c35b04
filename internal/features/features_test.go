package features

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/testutil"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	testutil.AssertNoError(t, err, fen)
	return pos
}

// squareIndex is the offset of sq's attack value in the square vector.
func squareIndex(sq string) int {
	s := board.MustSquare(sq)
	return (s.File()*8 + s.Rank()) * 2
}

func TestVectorSizes(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"4k3/8/8/8/8/8/8/4K3 w - -",
		"4k3/8/8/8/8/8/8/QQQQK3 b - -",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	}
	for _, fen := range fens {
		f := Extract(mustFEN(t, fen))
		if len(f.Global) != GlobalSize || len(f.Pieces) != PieceSize || len(f.Squares) != SquareSize {
			t.Errorf("%s: sizes %d/%d/%d, want %d/%d/%d", fen,
				len(f.Global), len(f.Pieces), len(f.Squares), GlobalSize, PieceSize, SquareSize)
		}
	}
}

func TestGlobalStart(t *testing.T) {
	f := Extract(board.NewPosition())
	want := []float64{0, 1, 1, 1, 1, 0.5, 1, 1, 1, 1, 0.5, 1, 1, 1, 1}
	testutil.AssertEqual(t, f.Global, want, nil)
}

func TestGlobalCountsAndRights(t *testing.T) {
	f := Extract(mustFEN(t, "4k3/pp6/8/8/8/8/8/R3K3 w Q -"))
	want := []float64{
		0,
		-1, 1, -1, -1,
		0, 0.5, 0, 0, 0,
		0, 0, 0, 0, 0.25,
	}
	testutil.AssertEqual(t, f.Global, want, nil)
}

func TestSquaresStart(t *testing.T) {
	f := Extract(board.NewPosition())

	tests := []struct {
		sq             string
		attack, defend float64
	}{
		{"a1", 0, 0},
		{"b1", 0, 0.2},     // rook a1
		{"a3", 0, 1},       // pawn b2
		{"d2", 0, 1.0 / 3}, // bishop c1, knight b1, queen, king
		{"e4", 0, 0},
		{"a6", 1, 0}, // pawn b7
		{"f6", 1, 0}, // knight g8 and pawns e7, g7
		{"e7", 0, 0}, // own piece of the attacker
	}
	for _, tc := range tests {
		i := squareIndex(tc.sq)
		testutil.AssertEqual(t, f.Squares[i:i+2], []float64{tc.attack, tc.defend},
			[]cmp.Option{cmpopts.EquateApprox(0, 1e-12)}, tc.sq)
	}
}

func TestPiecesStart(t *testing.T) {
	f := Extract(board.NewPosition())

	// White queen-side rook: alive, a1, no attackers or defenders, four
	// blocked lines.
	testutil.AssertEqual(t, f.Pieces[:9], []float64{1, -1, -1, 0, 0, 0, 0, 0, 0}, nil, "a1 rook")

	// White king: slot 4 follows rook (9), knight (5), bishop (9), queen (13).
	// Only the queen guards e1.
	king := f.Pieces[36:41]
	testutil.AssertEqual(t, king, []float64{1, normalized(4), -1, 0, 1.0 / 9}, nil, "e1 king")
}

func TestMobility(t *testing.T) {
	// Lone white rook on d4 with a black pawn on d6 and a white pawn on f4.
	f := Extract(mustFEN(t, "4k3/8/3p4/8/3R1P2/8/8/4K3 w - -"))

	// Slot 0 is the only white rook. Directions in order: (-1,0) (0,-1) (0,1) (1,0).
	rook := f.Pieces[:9]
	want := []float64{1, normalized(3), normalized(3), 0, 0, 3.0 / 7, 3.0 / 7, 2.0 / 7, 1.0 / 7}
	testutil.AssertEqual(t, rook, want, []cmp.Option{cmpopts.EquateApprox(0, 1e-12)})
}

func TestDeadPiecesReportNoControl(t *testing.T) {
	f := Extract(mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - -"))

	// The white queen slot is empty: alive -1 on its home square, then zeros.
	queen := f.Pieces[23:36]
	want := []float64{-1, normalized(3), -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	testutil.AssertEqual(t, queen, want, nil)
}

func TestExtractDoesNotModify(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	before := pos.FEN()
	Extract(pos)
	if pos.FEN() != before {
		t.Errorf("Extract changed the position to %s", pos.FEN())
	}
}
