package eval

import (
	"math"

	"github.com/hhhao/twisted-neurons/internal/features"
)

// Network dimensions.
const (
	InputSize  = features.GlobalSize + features.PieceSize + features.SquareSize
	HiddenSize = 32
)

// Network is a two-layer perceptron over the concatenated feature vectors
// with a tanh hidden layer and a linear output.
type Network struct {
	HiddenWeights [InputSize][HiddenSize]float32
	HiddenBias    [HiddenSize]float32

	OutputWeights [HiddenSize]float32
	OutputBias    float32
}

// NewNetwork creates a network with zero weights (must load weights or init random).
func NewNetwork() *Network {
	return &Network{}
}

// Forward computes the network output.
func (n *Network) Forward(global, pieces, squares []float64) float64 {
	var hidden [HiddenSize]float64
	for i := range hidden {
		hidden[i] = float64(n.HiddenBias[i])
	}

	offset := 0
	for _, part := range [][]float64{global, pieces, squares} {
		for j, x := range part {
			if offset+j >= InputSize {
				break
			}
			if x == 0 {
				continue
			}
			row := &n.HiddenWeights[offset+j]
			for i := range hidden {
				hidden[i] += x * float64(row[i])
			}
		}
		offset += len(part)
	}

	out := float64(n.OutputBias)
	for i, h := range hidden {
		out += math.Tanh(h) * float64(n.OutputWeights[i])
	}
	return out
}

// InitRandom initializes weights with small random values.
func (n *Network) InitRandom(seed int64) {
	// Use a simple LCG for reproducibility
	state := uint64(seed)
	next := func(scale float32) float32 {
		state = state*6364136223846793005 + 1442695040888963407
		return (float32((state>>40)&0xFFFF)/32768 - 1) * scale
	}

	for i := 0; i < InputSize; i++ {
		for j := 0; j < HiddenSize; j++ {
			n.HiddenWeights[i][j] = next(0.1)
		}
	}
	for j := 0; j < HiddenSize; j++ {
		n.HiddenBias[j] = next(0.1)
	}
	for j := 0; j < HiddenSize; j++ {
		n.OutputWeights[j] = next(1)
	}
	n.OutputBias = 0
}
