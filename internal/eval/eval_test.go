package eval

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/features"
	"github.com/hhhao/twisted-neurons/internal/testutil"
)

func TestMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want float64
	}{
		{board.StartFEN, 0},
		{"4k3/8/8/8/8/8/8/Q3K3 w - -", 9},
		{"r3k3/pp6/8/8/8/8/8/4K3 w - -", -7},
		{"4k3/8/8/8/8/8/8/NBNBK3 b - -", 12},
		{"4k3/8/8/8/8/8/8/QQQQK3 w - -", 36},
	}

	m := NewMaterial()
	for _, tc := range tests {
		pos, err := board.ParseFEN(tc.fen)
		testutil.AssertNoError(t, err)
		if got := Evaluate(m, pos); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestMaterialShortInput(t *testing.T) {
	if got := NewMaterial().Forward(nil, nil, nil); got != 0 {
		t.Errorf("got %v for empty input", got)
	}
}

func TestFunc(t *testing.T) {
	var sizes [3]int
	f := Func(func(g, p, s []float64) float64 {
		sizes = [3]int{len(g), len(p), len(s)}
		return 42
	})
	if got := Evaluate(f, board.NewPosition()); got != 42 {
		t.Errorf("got %v, want 42", got)
	}
	testutil.AssertEqual(t, sizes, [3]int{features.GlobalSize, features.PieceSize, features.SquareSize}, nil)
}

func TestNetworkZeroWeights(t *testing.T) {
	n := NewNetwork()
	if got := Evaluate(n, board.NewPosition()); got != 0 {
		t.Errorf("zero network scored %v", got)
	}
}

func TestNetworkDeterministic(t *testing.T) {
	a, b := NewNetwork(), NewNetwork()
	a.InitRandom(12345)
	b.InitRandom(12345)

	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	testutil.AssertNoError(t, err)

	if Evaluate(a, pos) != Evaluate(b, pos) {
		t.Error("same seed gave different scores")
	}

	c := NewNetwork()
	c.InitRandom(54321)
	if Evaluate(a, pos) == Evaluate(c, pos) {
		t.Error("different seeds gave the same score")
	}
}

func TestWeightsFile(t *testing.T) {
	src := NewNetwork()
	src.InitRandom(7)
	src.OutputBias = 0.5

	path := filepath.Join(t.TempDir(), "net.bin")
	testutil.AssertNoError(t, src.SaveWeights(path))

	e, err := Load(path)
	testutil.AssertNoError(t, err)

	pos := board.NewPosition()
	if got, want := Evaluate(e, pos), Evaluate(src, pos); got != want {
		t.Errorf("loaded network scored %v, want %v", got, want)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	e, err := Load("")
	testutil.AssertNoError(t, err)
	if _, ok := e.(Material); !ok {
		t.Errorf("Load(\"\") = %T, want Material", e)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	n := NewNetwork()
	var buf bytes.Buffer
	testutil.AssertNoError(t, n.WriteWeights(&buf))
	good := buf.Bytes()

	badMagic := append([]byte{}, good...)
	badMagic[0] ^= 0xFF
	if err := NewNetwork().LoadWeightsFromReader(bytes.NewReader(badMagic)); !errors.Is(err, ErrBadWeights) {
		t.Errorf("bad magic: got %v, want ErrBadWeights", err)
	}

	badSize := append([]byte{}, good...)
	badSize[8]++
	if err := NewNetwork().LoadWeightsFromReader(bytes.NewReader(badSize)); !errors.Is(err, ErrBadWeights) {
		t.Errorf("bad size: got %v, want ErrBadWeights", err)
	}

	target := NewNetwork()
	target.InitRandom(3)
	before := *target
	if err := target.LoadWeightsFromReader(bytes.NewReader(good[:len(good)/2])); err == nil {
		t.Error("truncated file loaded without error")
	}
	if *target != before {
		t.Error("failed load modified the network")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("missing file loaded without error")
	}
}
