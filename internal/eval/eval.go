// Package eval provides static evaluators for the search.
//
// An evaluator sees a position only through the three feature vectors
// built by package features and returns a score from white's point of
// view: larger is better for white.
package eval

import (
	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/features"
)

// Evaluator scores feature vectors.
type Evaluator interface {
	Forward(global, pieces, squares []float64) float64
}

// Func adapts an ordinary function to Evaluator.
type Func func(global, pieces, squares []float64) float64

// Forward calls f.
func (f Func) Forward(global, pieces, squares []float64) float64 {
	return f(global, pieces, squares)
}

// Evaluate extracts the features of pos and scores them with e.
func Evaluate(e Evaluator, pos *board.Position) float64 {
	f := features.Extract(pos)
	return e.Forward(f.Global, f.Pieces, f.Squares)
}

// Global vector layout.
const (
	globalWhiteCounts = 5
	globalBlackCounts = 10
)

// Material scores the material balance read from the global vector.
// Values are per piece in Q, R, B, N, P order.
type Material struct {
	Values [5]float64
}

// NewMaterial returns the classic 9/5/3/3/1 material evaluator.
func NewMaterial() Material {
	return Material{Values: [5]float64{9, 5, 3, 3, 1}}
}

// counts undoes the normalization of the global piece counts.
var counts = [5]float64{2, 2, 2, 2, 8}

// Forward implements Evaluator.
func (m Material) Forward(global, _, _ []float64) float64 {
	if len(global) < features.GlobalSize {
		return 0
	}
	score := 0.0
	for i, v := range m.Values {
		diff := global[globalWhiteCounts+i] - global[globalBlackCounts+i]
		score += v * diff * counts[i]
	}
	return score
}
