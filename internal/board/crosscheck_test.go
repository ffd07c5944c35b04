package board

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"

	"github.com/hhhao/twisted-neurons/internal/testutil"
)

var crossCheckFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq -",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ -",
}

// referenceMoves lists the legal moves notnil/chess finds in fen.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen + " 0 1")
	if err != nil {
		t.Fatalf("chess.FEN(%q): %v", fen, err)
	}
	game := chess.NewGame(opt)
	var out []string
	for _, m := range game.ValidMoves() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func TestLegalMovesMatchReference(t *testing.T) {
	for _, fen := range crossCheckFENs {
		pos := mustFEN(t, fen)
		testutil.AssertEqual(t, moveStrings(pos.LegalMoves()), referenceMoves(t, fen), nil, fen)
	}
}

func TestRandomGamesMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for game := 0; game < 3; game++ {
		pos := NewPosition()
		for ply := 0; ply < 80; ply++ {
			fen := pos.FEN()
			moves := pos.LegalMoves()
			testutil.AssertEqual(t, moveStrings(moves), referenceMoves(t, fen), nil, "game %d ply %d: %s", game, ply, fen)
			if len(moves) == 0 {
				break
			}
			if !pos.Apply(moves[rng.Intn(len(moves))]) {
				t.Fatalf("generated move refused at %s", fen)
			}
		}
	}
}

func referencePerft(b *dragontoothmg.Board, depth int) int64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestPerftMatchesReference(t *testing.T) {
	for _, fen := range crossCheckFENs {
		ref := dragontoothmg.ParseFen(fen + " 0 1")
		pos := mustFEN(t, fen)
		if got, want := pos.Perft(2), referencePerft(&ref, 2); got != want {
			t.Errorf("%s: perft(2) = %d, reference %d", fen, got, want)
		}
	}
}
