// Twisted Neurons - a chess game against a searching engine, played over a
// line protocol on standard input and output.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/config"
	"github.com/hhhao/twisted-neurons/internal/engine"
	"github.com/hhhao/twisted-neurons/internal/eval"
	"github.com/hhhao/twisted-neurons/internal/logging"
	"github.com/hhhao/twisted-neurons/internal/protocol"
	"github.com/hhhao/twisted-neurons/internal/session"
	"github.com/hhhao/twisted-neurons/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "twisted-neurons:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	flag.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "easy, medium or hard")
	flag.IntVar(&cfg.Depth, "depth", cfg.Depth, "search depth in plies, overrides difficulty")
	flag.StringVar(&cfg.Player, "player", cfg.Player, "color of the human player: w or b")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	flag.StringVar(&cfg.WeightsFile, "weights", cfg.WeightsFile, "network weights file, material evaluation when empty")
	flag.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")
	flag.DurationVar(&cfg.Pace, "pace", cfg.Pace, "delay between self-play moves")
	flag.BoolVar(&cfg.InMemory, "memory", cfg.InMemory, "do not persist games and statistics")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	store, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	closeStore := sync.OnceValue(store.Close)
	defer closeStore()

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("could not load preferences")
	}
	cfg.ApplyPreferences(prefs, set)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ev, err := loadEvaluator(cfg, log)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(ev, log)
	difficulty, _ := engine.ParseDifficulty(cfg.Difficulty)
	eng.SetDifficulty(difficulty)
	if cfg.Depth > 0 {
		eng.SetDepth(cfg.Depth)
	}

	s := session.New(eng, session.Options{Player: cfg.PlayerColor(), Pace: cfg.Pace}, log)

	var once sync.Once
	shutdown := func() {
		once.Do(func() {
			s.StopAuto()
			cfg.Player = s.Player().Code()
			cfg.Depth = s.Depth()
			if cfg.Depth == engine.DifficultySettings[difficulty].Depth {
				cfg.Depth = 0
			}
			if err := store.SavePreferences(cfg.Preferences()); err != nil {
				log.Warn().Err(err).Msg("could not save preferences")
			}
			closeStore()
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)

	// Reading stdin does not return on a signal, so the process ends here.
	go watchSignals(sigCh, done, func() {
		shutdown()
		log.Info().Msg("interrupted")
		os.Exit(0)
	})

	log.Info().
		Str("difficulty", cfg.Difficulty).
		Int("depth", eng.Depth()).
		Str("player", cfg.Player).
		Msg("session started")

	err = protocol.New(s, store, os.Stdout, log).Run(context.Background(), os.Stdin)
	shutdown()
	return err
}

// watchSignals calls onSignal when a signal arrives before done is closed.
func watchSignals(sigCh <-chan os.Signal, done <-chan struct{}, onSignal func()) {
	select {
	case <-sigCh:
		onSignal()
	case <-done:
	}
}

func openStorage(cfg *config.Config, log zerolog.Logger) (*storage.Storage, error) {
	if cfg.InMemory {
		return storage.OpenInMemory(log)
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dir, err := storage.GetDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}
	dbDir, err := storage.GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dbDir, log)
}

// loadEvaluator loads the configured weights. A bare file name is also
// looked up in the weights directory.
func loadEvaluator(cfg *config.Config, log zerolog.Logger) (eval.Evaluator, error) {
	file := cfg.WeightsFile
	if file != "" && !fileExists(file) && filepath.Base(file) == file && !cfg.InMemory {
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir, _ = storage.GetDataDir()
		}
		if dir, err := storage.GetWeightsDir(dataDir); err == nil {
			file = filepath.Join(dir, file)
		}
	}

	ev, err := eval.Load(file)
	if err != nil {
		return nil, err
	}
	if file == "" {
		log.Info().Msg("using material evaluation")
	} else {
		log.Info().Str("file", file).Msg("network weights loaded")
	}
	return ev, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
