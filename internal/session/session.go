// Package session runs one game between a player and the engine: it owns
// the position, turns player intents into moves and engine replies, and
// pushes board snapshots to observers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/engine"
)

var (
	// ErrGameOver is returned for moves after the game has ended.
	ErrGameOver = errors.New("game is over")
	// ErrAutoRunning is returned for intents refused while self-play runs.
	ErrAutoRunning = errors.New("auto play is running")
	// ErrHistoryRefused is returned when a history step could not be replayed.
	ErrHistoryRefused = errors.New("history step refused")
)

// Result is the outcome of a game.
type Result int

const (
	InProgress Result = iota
	WhiteWins
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// ParseResult parses the notation produced by Result.String.
func ParseResult(s string) (Result, error) {
	for r := InProgress; r <= Draw; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return InProgress, fmt.Errorf("unknown result %q", s)
}

// Options configures a session.
type Options struct {
	Player board.Color   // side the player controls
	Pace   time.Duration // delay between self-play ticks
}

// Session is one game. All methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	pos       *board.Position
	start     string
	engine    *engine.Engine
	observers []Observer
	player    board.Color
	pace      time.Duration
	result    Result
	resigned  bool
	log       zerolog.Logger

	autoCancel context.CancelFunc
	autoDone   chan struct{}
}

// New creates a session at the standard starting position.
func New(eng *engine.Engine, opts Options, log zerolog.Logger) *Session {
	player := opts.Player
	if player != board.Black {
		player = board.White
	}
	return &Session{
		pos:    board.NewPosition(),
		start:  board.StartFEN,
		engine: eng,
		player: player,
		pace:   opts.Pace,
		log:    log,
	}
}

// Subscribe registers an observer and sends it the current board.
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
	o.Board(snapshotOf(s.pos, false, s.result))
}

func (s *Session) publish(blocked bool) {
	snap := snapshotOf(s.pos, blocked, s.result)
	for _, o := range s.observers {
		o.Board(snap)
	}
}

func (s *Session) searchStarted() {
	for _, o := range s.observers {
		o.SearchStarted()
	}
}

func (s *Session) searchFinished() {
	for _, o := range s.observers {
		o.SearchFinished()
	}
}

// SubmitMove plays a move for color, then lets the engine answer when the
// side to move is no longer the player's. option is the promotion choice,
// board.NoKind for the default queen.
func (s *Session) SubmitMove(from, to board.Square, color board.Color, option board.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	if color != s.pos.SideToMove {
		return board.ErrNotYourTurn
	}

	s.searchStarted()
	defer s.searchFinished()

	m := board.NewPromotion(from, to, option)
	if err := s.pos.Play(m); err != nil {
		s.publish(false)
		return fmt.Errorf("%s: %w", m, err)
	}
	s.updateResult()
	s.log.Info().Str("move", m.String()).Str("color", color.String()).Msg("player move")

	if s.result != InProgress || s.pos.SideToMove == s.player {
		s.publish(false)
		return nil
	}
	s.publish(true)
	s.reply()
	s.publish(false)
	return nil
}

// Go makes the engine move for the side to move.
func (s *Session) Go() (board.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return board.NoMove, err
	}
	s.searchStarted()
	defer s.searchFinished()

	m, ok := s.reply()
	s.publish(false)
	if !ok {
		return board.NoMove, ErrGameOver
	}
	return m, nil
}

// reply searches and plays the engine's move.
func (s *Session) reply() (board.Move, bool) {
	m, score, ok := s.engine.Search(s.pos)
	if !ok || !s.pos.Apply(m) {
		s.updateResult()
		return board.NoMove, false
	}
	s.updateResult()
	s.log.Info().Str("move", m.String()).Float64("score", score).Msg("engine move")
	return m, true
}

func (s *Session) ready() error {
	if s.autoCancel != nil {
		return ErrAutoRunning
	}
	if s.resigned || s.result != InProgress {
		return ErrGameOver
	}
	return nil
}

func (s *Session) updateResult() {
	if s.resigned {
		return
	}
	s.result = InProgress
	if s.pos.HasLegalMoves() {
		return
	}
	switch {
	case !s.pos.InCheck(s.pos.SideToMove):
		s.result = Draw
	case s.pos.SideToMove == board.White:
		s.result = BlackWins
	default:
		s.result = WhiteWins
	}
}

// Undo takes back the player's last move together with the reply to it.
// With a single move played only that one is taken back.
func (s *Session) Undo() error {
	return s.step(false)
}

// Redo replays two undone plies.
func (s *Session) Redo() error {
	return s.step(true)
}

func (s *Session) step(forward bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoCancel != nil {
		return ErrAutoRunning
	}
	if s.resigned {
		return ErrGameOver
	}
	do, can := s.pos.Undo, s.pos.CanUndo
	if forward {
		do, can = s.pos.Redo, s.pos.CanRedo
	}
	return s.replay(do, can)
}

// replay steps through up to two plies of history with do, publishing a
// blocked board between them. A refused step stops the replay.
func (s *Session) replay(do, can func() bool) error {
	if !can() {
		return board.ErrNoHistory
	}
	for ply := 0; ply < 2; ply++ {
		if !do() {
			s.publish(false)
			return ErrHistoryRefused
		}
		s.updateResult()
		if ply == 1 || !can() {
			break
		}
		s.publish(true)
	}
	s.publish(false)
	return nil
}

// Resign ends the game as a loss for the player.
func (s *Session) Resign() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoCancel != nil {
		return ErrAutoRunning
	}
	if s.resigned || s.result != InProgress {
		return ErrGameOver
	}
	s.resigned = true
	s.result = WhiteWins
	if s.player == board.White {
		s.result = BlackWins
	}
	s.log.Info().Str("result", s.result.String()).Msg("player resigned")
	s.publish(false)
	return nil
}

// StartAuto lets the engine play both sides, two plies per tick, until no
// move is found, the game ends, StopAuto is called or ctx is cancelled.
func (s *Session) StartAuto(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.autoCancel, s.autoDone = cancel, done
	s.searchStarted()
	s.log.Info().Dur("pace", s.pace).Msg("auto play started")

	go s.autoLoop(ctx, done)
	return nil
}

func (s *Session) autoLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	pace := s.pace
	if pace <= 0 {
		pace = time.Millisecond
	}
	ticker := time.NewTicker(pace)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finishAuto(done)
			return
		case <-ticker.C:
		}
		if !s.autoTick(ctx) {
			s.finishAuto(done)
			return
		}
	}
}

// autoTick plays up to two plies and reports whether play continues.
func (s *Session) autoTick(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < 2; i++ {
		if ctx.Err() != nil {
			return false
		}
		if _, ok := s.reply(); !ok {
			return false
		}
		s.publish(true)
		if s.result != InProgress {
			return false
		}
	}
	return true
}

// finishAuto clears the self-play state if it still belongs to done's run.
func (s *Session) finishAuto(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoDone != done {
		return
	}
	s.autoCancel()
	s.autoCancel, s.autoDone = nil, nil
	s.log.Info().Str("result", s.result.String()).Msg("auto play finished")
	s.searchFinished()
	s.publish(false)
}

// StopAuto stops self-play and waits for the running tick to finish.
// It is a no-op when self-play is not running.
func (s *Session) StopAuto() {
	s.mu.Lock()
	cancel, done := s.autoCancel, s.autoDone
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until self-play is not running.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.autoDone
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// NewGame resets to the standard starting position.
func (s *Session) NewGame() error {
	return s.Load(board.StartFEN, nil)
}

// Load sets up a position and replays moves from it. On error the session
// is unchanged.
func (s *Session) Load(fen string, moves []board.Move) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	for i, m := range moves {
		if err := pos.Play(m); err != nil {
			return fmt.Errorf("move %d %s: %w", i+1, m, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autoCancel != nil {
		return ErrAutoRunning
	}
	s.pos = pos
	s.start = fen
	s.resigned = false
	s.updateResult()
	s.publish(false)
	return nil
}

// Position returns a copy of the current position.
func (s *Session) Position() *board.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos.Clone()
}

// StartFEN returns the position the game started from.
func (s *Session) StartFEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

// Moves returns the moves played so far, without the redo tail.
func (s *Session) Moves() []board.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist := s.pos.History()[:s.pos.Cursor()]
	moves := make([]board.Move, len(hist))
	for i, rec := range hist {
		moves[i] = rec.Move()
	}
	return moves
}

// Result returns the game outcome so far.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Player returns the side the player controls.
func (s *Session) Player() board.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// SetPlayer changes the side the player controls.
func (s *Session) SetPlayer(c board.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = c
}

// SetDepth sets the engine's search depth; 0 restores its difficulty preset.
func (s *Session) SetDepth(depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetDepth(depth)
}

// Depth returns the engine's search depth.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Depth()
}

// Evaluate returns the engine's static score of the current position.
func (s *Session) Evaluate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Evaluate(s.pos)
}

// Perft counts move-tree leaves below the current position per root move.
func (s *Session) Perft(depth int) []engine.PerftCount {
	s.mu.Lock()
	pos := s.pos.Clone()
	s.mu.Unlock()
	return s.engine.Perft(pos, depth)
}
