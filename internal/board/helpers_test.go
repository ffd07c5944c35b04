package board

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// positionOpts compares positions field by field, unexported state included.
var positionOpts = []cmp.Option{
	cmp.AllowUnexported(Position{}, Record{}),
	cmpopts.EquateEmpty(),
}

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// play applies long-algebraic moves and fails the test on the first refusal.
func play(t *testing.T, pos *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		if !pos.Apply(m) {
			t.Fatalf("move %s refused in %s", s, pos.FEN())
		}
	}
}

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}
