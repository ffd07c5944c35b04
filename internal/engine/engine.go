// Package engine chooses moves with a fixed-depth alpha-beta search over
// a pluggable evaluator.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/eval"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score float64
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // plies searched; 0 only evaluates
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 1},
	Medium: {Depth: 2},
	Hard:   {Depth: 3},
}

var difficultyNames = map[Difficulty]string{
	Easy:   "easy",
	Medium: "medium",
	Hard:   "hard",
}

func (d Difficulty) String() string {
	if s, ok := difficultyNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	eval       eval.Evaluator
	difficulty Difficulty
	depth      int
	log        zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine scoring positions with e.
func NewEngine(e eval.Evaluator, log zerolog.Logger) *Engine {
	return &Engine{
		searcher:   NewSearcher(e),
		eval:       e,
		difficulty: Medium,
		log:        log,
	}
}

// SetDifficulty sets the engine difficulty and drops any explicit depth.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
	e.depth = 0
}

// SetDepth overrides the difficulty with an explicit depth. Non-positive
// values fall back to the difficulty setting.
func (e *Engine) SetDepth(depth int) {
	e.depth = depth
}

// Depth returns the depth the next Search will use.
func (e *Engine) Depth() int {
	if e.depth > 0 {
		return e.depth
	}
	return DifficultySettings[e.difficulty].Depth
}

// Search finds the best move for the side to move in pos.
// ok is false when the side to move has no legal move.
func (e *Engine) Search(pos *board.Position) (board.Move, float64, bool) {
	return e.SearchWithLimits(pos, SearchLimits{Depth: e.Depth()})
}

// SearchWithLimits finds the best move with specific search limits.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) (board.Move, float64, bool) {
	e.searcher.Reset()
	startTime := time.Now()

	score, move, ok := e.searcher.BestMove(pos, limits.Depth)

	info := SearchInfo{
		Depth: limits.Depth,
		Score: score,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(startTime),
		Move:  move,
	}
	e.log.Debug().
		Str("fen", pos.FEN()).
		Int("depth", info.Depth).
		Str("move", move.String()).
		Float64("score", score).
		Uint64("nodes", info.Nodes).
		Dur("took", info.Time).
		Msg("search finished")

	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move, score, ok
}

// PerftCount is the number of leaf nodes below one root move.
type PerftCount struct {
	Move  board.Move
	Nodes int64
}

// Perft counts the leaf nodes of the legal move tree at depth, split by
// root move in generation order. pos is not modified.
func (e *Engine) Perft(pos *board.Position, depth int) []PerftCount {
	if depth < 1 {
		return nil
	}
	moves := pos.LegalMoves()
	counts := make([]PerftCount, 0, len(moves))
	for _, m := range moves {
		child := pos.Clone()
		child.Apply(m)
		n := int64(1)
		if depth > 1 {
			n = child.Perft(depth - 1)
		}
		counts = append(counts, PerftCount{Move: m, Nodes: n})
	}
	return counts
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) float64 {
	return eval.Evaluate(e.eval, pos)
}

// ScoreToString formats an evaluator score from white's point of view.
func ScoreToString(score float64) string {
	return fmt.Sprintf("%+.2f", score)
}
