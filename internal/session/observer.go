package session

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hhhao/twisted-neurons/internal/board"
)

// Snapshot is the board state pushed to observers after every change.
type Snapshot struct {
	Squares map[string]string // occupied square -> color+kind code, e.g. "e1" -> "wK"
	Blocked bool              // input should be refused until the next snapshot
	FEN     string
	Result  Result
}

func snapshotOf(pos *board.Position, blocked bool, result Result) Snapshot {
	return Snapshot{
		Squares: pos.Occupancy(),
		Blocked: blocked,
		FEN:     pos.FEN(),
		Result:  result,
	}
}

// String lists the occupied squares in square-name order, e.g. "a1=wR a2=wP ...".
func (s Snapshot) String() string {
	keys := maps.Keys(s.Squares)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + s.Squares[k]
	}
	return strings.Join(parts, " ")
}

// Observer receives session notifications. Calls are made while the
// session is locked; an observer must not call back into the session.
type Observer interface {
	Board(Snapshot)
	SearchStarted()
	SearchFinished()
}

// Funcs adapts plain functions to Observer. Nil fields are skipped.
type Funcs struct {
	OnBoard          func(Snapshot)
	OnSearchStarted  func()
	OnSearchFinished func()
}

func (f Funcs) Board(s Snapshot) {
	if f.OnBoard != nil {
		f.OnBoard(s)
	}
}

func (f Funcs) SearchStarted() {
	if f.OnSearchStarted != nil {
		f.OnSearchStarted()
	}
}

func (f Funcs) SearchFinished() {
	if f.OnSearchFinished != nil {
		f.OnSearchFinished()
	}
}
