// Package protocol implements a line-oriented text front end for a game
// session: one command per input line, replies and board updates as lines
// on the output.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/engine"
	"github.com/hhhao/twisted-neurons/internal/session"
	"github.com/hhhao/twisted-neurons/internal/storage"
)

// ErrStorageDisabled is returned by save, load and list without a store.
var ErrStorageDisabled = errors.New("storage disabled")

// Protocol reads commands and drives a session.
type Protocol struct {
	session *session.Session
	store   *storage.Storage // may be nil
	log     zerolog.Logger

	mu  sync.Mutex // serializes writes to out
	out io.Writer

	gameID   uint64
	recorded bool
	ctx      context.Context
}

// New creates a protocol handler writing to out. store may be nil.
func New(s *session.Session, store *storage.Storage, out io.Writer, log zerolog.Logger) *Protocol {
	p := &Protocol{
		session: s,
		store:   store,
		out:     out,
		log:     log,
		ctx:     context.Background(),
	}
	s.Subscribe(p)
	return p
}

func (p *Protocol) println(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Board implements session.Observer.
func (p *Protocol) Board(s session.Snapshot) {
	state := "ready"
	if s.Blocked {
		state = "busy"
	}
	p.println("board %s %s %s", state, s.Result, s.FEN)
}

// SearchStarted implements session.Observer.
func (p *Protocol) SearchStarted() {
	p.println("info thinking")
}

// SearchFinished implements session.Observer.
func (p *Protocol) SearchFinished() {
	p.println("info done thinking")
}

// Run reads commands from in until quit, end of input or ctx is done.
// Self-play is stopped before returning.
func (p *Protocol) Run(ctx context.Context, in io.Reader) error {
	p.ctx = ctx
	defer p.session.StopAuto()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		if cmd == "quit" {
			return nil
		}
		if err := p.Execute(cmd, args); err != nil {
			p.log.Debug().Err(err).Str("cmd", line).Msg("command failed")
			p.println("error %v", err)
		}
		p.recordFinished()
	}
	return scanner.Err()
}

// Execute runs one command.
func (p *Protocol) Execute(cmd string, args []string) error {
	switch cmd {
	case "move":
		if len(args) == 0 {
			return errors.New("usage: move <from><to>[promotion] | move <san>")
		}
		return p.handleMove(args[0])
	case "undo":
		return p.session.Undo()
	case "redo":
		return p.session.Redo()
	case "go":
		m, err := p.session.Go()
		if err != nil {
			return err
		}
		p.println("bestmove %s", m)
		return nil
	case "auto":
		return p.session.StartAuto(p.ctx)
	case "stop":
		p.session.StopAuto()
		return nil
	case "resign":
		return p.session.Resign()
	case "new":
		p.gameID, p.recorded = 0, false
		return p.session.NewGame()
	case "position":
		return p.handlePosition(args)
	case "fen":
		p.println("fen %s", p.session.Position().FEN())
		return nil
	case "d":
		p.println("%s", p.session.Position().String())
		return nil
	case "moves":
		return p.handleLegalMoves()
	case "history":
		p.println("history %s", strings.Join(p.session.Position().SANMoves(), " "))
		return nil
	case "perft":
		return p.handlePerft(args)
	case "eval":
		p.println("eval %s", engine.ScoreToString(p.session.Evaluate()))
		return nil
	case "depth":
		return p.handleDepth(args)
	case "save":
		return p.handleSave()
	case "load":
		return p.handleLoad(args)
	case "list":
		return p.handleList()
	case "delete":
		return p.handleDelete(args)
	case "stats":
		return p.handleStats()
	}

	// A bare coordinate move is accepted as well.
	if _, err := board.ParseMove(cmd); err == nil && len(args) == 0 {
		return p.handleMove(cmd)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// handleMove accepts coordinate notation and falls back to SAN.
func (p *Protocol) handleMove(s string) error {
	m, err := board.ParseMove(s)
	if err != nil {
		if m, err = p.session.Position().ParseSAN(s); err != nil {
			return err
		}
	}
	return p.session.SubmitMove(m.From, m.To, p.session.Player(), m.Promotion)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (p *Protocol) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: position startpos|fen <fen> [moves ...]")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		return fmt.Errorf("unknown position type %q", args[0])
	}

	var moves []board.Move
	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := board.ParseMove(s)
			if err != nil {
				return err
			}
			moves = append(moves, m)
		}
	}

	if err := p.session.Load(fen, moves); err != nil {
		return err
	}
	p.gameID, p.recorded = 0, false
	return nil
}

func (p *Protocol) handleLegalMoves() error {
	moves := p.session.Position().LegalMoves()
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	p.println("moves %s", strings.Join(strs, " "))
	return nil
}

func (p *Protocol) handlePerft(args []string) error {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return fmt.Errorf("invalid perft depth %q", args[0])
		}
		depth = d
	}

	var total int64
	for _, c := range p.session.Perft(depth) {
		total += c.Nodes
		p.println("%s: %d", c.Move, c.Nodes)
	}
	p.println("nodes %d", total)
	return nil
}

func (p *Protocol) handleDepth(args []string) error {
	if len(args) == 0 {
		p.println("depth %d", p.session.Depth())
		return nil
	}
	d, err := strconv.Atoi(args[0])
	if err != nil || d < 0 {
		return fmt.Errorf("invalid depth %q", args[0])
	}
	p.session.SetDepth(d)
	p.println("depth %d", p.session.Depth())
	return nil
}
