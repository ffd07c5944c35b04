// Command tn-selfplay plays the engine against itself and can write a fresh
// set of random network weights.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/engine"
	"github.com/hhhao/twisted-neurons/internal/eval"
	"github.com/hhhao/twisted-neurons/internal/logging"
	"github.com/hhhao/twisted-neurons/internal/session"
	"github.com/hhhao/twisted-neurons/internal/storage"
)

var (
	games      = flag.Int("games", 1, "number of games to play")
	depth      = flag.Int("depth", 2, "search depth in plies")
	maxPlies   = flag.Int("maxplies", 200, "stop a game after this many plies")
	fen        = flag.String("fen", board.StartFEN, "starting position")
	weights    = flag.String("weights", "", "network weights file, material evaluation when empty")
	initOut    = flag.String("init", "", "write random network weights to this file and exit")
	seed       = flag.Int64("seed", 1, "seed for -init")
	dbDir      = flag.String("db", "", "save finished games to this database directory")
	logLevel   = flag.String("log", "info", "log level")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tn-selfplay:", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := logging.New(*logLevel, os.Stderr)
	if err != nil {
		return err
	}

	if *initOut != "" {
		net := eval.NewNetwork()
		net.InitRandom(*seed)
		if err := net.SaveWeights(*initOut); err != nil {
			return fmt.Errorf("write weights: %w", err)
		}
		log.Info().Str("file", *initOut).Int64("seed", *seed).Msg("random weights written")
		return nil
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("file", profilePath).Msg("CPU profiling enabled")
	}

	ev, err := eval.Load(*weights)
	if err != nil {
		return fmt.Errorf("load evaluator: %w", err)
	}

	var store *storage.Storage
	if *dbDir != "" {
		if store, err = storage.Open(*dbDir, log); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
	}

	eng := engine.NewEngine(ev, log)
	eng.SetDepth(*depth)

	tally := make(map[session.Result]int)
	for i := 1; i <= *games; i++ {
		g, err := playGame(eng, *fen, *maxPlies, log)
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		tally[g.result]++
		fmt.Printf("%d. %s %s\n", i, g.result, strings.Join(g.moves, " "))

		if store != nil {
			rec := &storage.Game{
				StartFEN: *fen,
				Moves:    g.moves,
				Result:   g.result.String(),
				Player:   board.White.Code(),
				Depth:    *depth,
			}
			if err := store.SaveGame(rec); err != nil {
				log.Warn().Err(err).Msg("could not save game")
			}
		}
	}

	log.Info().
		Int("white", tally[session.WhiteWins]).
		Int("black", tally[session.BlackWins]).
		Int("draws", tally[session.Draw]).
		Int("unfinished", tally[session.InProgress]).
		Msg("self-play finished")
	return nil
}

type game struct {
	moves  []string
	result session.Result
}

// playGame plays one game from fen. Games reaching maxPlies are left
// unfinished.
func playGame(eng *engine.Engine, fen string, maxPlies int, log zerolog.Logger) (game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return game{}, err
	}

	var g game
	start := time.Now()
	for ply := 0; ply < maxPlies; ply++ {
		m, _, ok := eng.Search(pos)
		if !ok {
			break
		}
		if !pos.Apply(m) {
			return g, fmt.Errorf("engine chose illegal move %s in %s", m, pos.FEN())
		}
		g.moves = append(g.moves, m.String())
	}

	switch {
	case pos.IsCheckmate() && pos.SideToMove == board.White:
		g.result = session.BlackWins
	case pos.IsCheckmate():
		g.result = session.WhiteWins
	case pos.IsStalemate():
		g.result = session.Draw
	default:
		g.result = session.InProgress
	}
	log.Debug().
		Int("plies", len(g.moves)).
		Str("result", g.result.String()).
		Dur("time", time.Since(start)).
		Msg("game finished")
	return g, nil
}
