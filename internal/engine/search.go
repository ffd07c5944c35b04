package engine

import (
	"math"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/eval"
)

// Searcher performs a fixed-depth minimax search with alpha-beta pruning.
//
// White always maximizes and black always minimizes, whichever side the
// caller plays: scores are read from white's point of view throughout.
// Every branch is searched on its own copy of the position, so the
// caller's position is never touched.
type Searcher struct {
	eval  eval.Evaluator
	nodes uint64
}

// NewSearcher creates a searcher scoring leaves with e.
func NewSearcher(e eval.Evaluator) *Searcher {
	return &Searcher{eval: e}
}

// Reset resets the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of positions visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// BestMove searches pos to the given depth and returns the score together
// with the move achieving it. ok is false when depth is not positive or the
// side to move has no legal move; score is then the static evaluation.
//
// Ties keep the first move in generation order. The root examines every
// move; only inner nodes prune.
func (s *Searcher) BestMove(pos *board.Position, depth int) (score float64, best board.Move, ok bool) {
	s.nodes++
	moves := pos.LegalMoves()
	if depth <= 0 || len(moves) == 0 {
		return eval.Evaluate(s.eval, pos), board.NoMove, false
	}

	maximizing := pos.SideToMove == board.White
	score = math.Inf(1)
	if maximizing {
		score = math.Inf(-1)
	}
	alpha, beta := math.Inf(-1), math.Inf(1)
	best = board.NoMove

	for _, m := range moves {
		child := pos.Clone()
		if !child.Apply(m) {
			continue
		}
		sub := s.value(child, depth-1, alpha, beta, !maximizing)
		if maximizing && sub > score {
			score, best = sub, m
			alpha = math.Max(alpha, sub)
		} else if !maximizing && sub < score {
			score, best = sub, m
			beta = math.Min(beta, sub)
		}
	}
	return score, best, best != board.NoMove
}

func (s *Searcher) value(pos *board.Position, depth int, alpha, beta float64, maximizing bool) float64 {
	s.nodes++
	if depth <= 0 {
		return eval.Evaluate(s.eval, pos)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return eval.Evaluate(s.eval, pos)
	}

	score := math.Inf(1)
	if maximizing {
		score = math.Inf(-1)
	}
	for _, m := range moves {
		child := pos.Clone()
		if !child.Apply(m) {
			continue
		}
		sub := s.value(child, depth-1, alpha, beta, !maximizing)
		if maximizing && sub > score {
			score = sub
			alpha = math.Max(alpha, sub)
		} else if !maximizing && sub < score {
			score = sub
			beta = math.Min(beta, sub)
		}
		if alpha > beta {
			break
		}
	}
	return score
}
