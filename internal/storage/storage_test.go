package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hhhao/twisted-neurons/internal/testutil"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Difficulty != "medium" {
			t.Errorf("Expected medium difficulty, got %q", prefs.Difficulty)
		}
		if prefs.PlayerColor != "w" {
			t.Errorf("Expected white player, got %q", prefs.PlayerColor)
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferences(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, prefs.Difficulty, "medium", nil, "defaults before first save")

	prefs.Depth = 3
	prefs.PlayerColor = "b"
	prefs.WeightsFile = "net.bin"
	testutil.AssertNoError(t, s.SavePreferences(prefs))

	got, err := s.LoadPreferences()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.Depth, 3, nil)
	testutil.AssertEqual(t, got.PlayerColor, "b", nil)
	testutil.AssertEqual(t, got.WeightsFile, "net.bin", nil)
	testutil.AssertFalse(t, got.LastPlayed.IsZero(), "last played set")
}

func TestRecordResult(t *testing.T) {
	s, err := OpenInMemory(zerolog.Nop())
	testutil.AssertNoError(t, err)
	defer s.Close()

	testutil.AssertNoError(t, s.RecordResult(true, false, 2))
	testutil.AssertNoError(t, s.RecordResult(true, false, 2))
	testutil.AssertNoError(t, s.RecordResult(false, true, 2))
	testutil.AssertNoError(t, s.RecordResult(true, false, 3))
	testutil.AssertNoError(t, s.RecordResult(false, false, 3))

	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err)
	want := &GameStats{
		GamesPlayed:    5,
		Wins:           3,
		Losses:         1,
		Draws:          1,
		WinsByDepth:    map[string]int{"2": 2, "3": 1},
		LongestWinStrk: 2,
		CurrentStreak:  0,
	}
	testutil.AssertEqual(t, stats, want, nil)
}

func TestGames(t *testing.T) {
	s := openTemp(t)

	games, err := s.ListGames()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(games), 0, nil)

	first := &Game{StartFEN: "start", Moves: []string{"e2e4", "e7e5"}, Result: "*", Player: "w", Depth: 2}
	testutil.AssertNoError(t, s.SaveGame(first))
	second := &Game{StartFEN: "start", Moves: []string{"d2d4"}, Result: "*", Player: "b", Depth: 1}
	testutil.AssertNoError(t, s.SaveGame(second))

	testutil.AssertEqual(t, first.ID, uint64(1), nil)
	testutil.AssertEqual(t, second.ID, uint64(2), nil)

	first.Moves = append(first.Moves, "g1f3")
	first.Result = "1-0"
	testutil.AssertNoError(t, s.SaveGame(first))

	got, err := s.LoadGame(1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.Moves, []string{"e2e4", "e7e5", "g1f3"}, nil)
	testutil.AssertEqual(t, got.Result, "1-0", nil)
	testutil.AssertTrue(t, got.Created.Equal(first.Created), "created kept")

	games, err = s.ListGames()
	testutil.AssertNoError(t, err)
	ids := make([]uint64, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	testutil.AssertEqual(t, ids, []uint64{1, 2}, nil)

	testutil.AssertNoError(t, s.DeleteGame(1))
	if _, err := s.LoadGame(1); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("load deleted game: got %v, want ErrGameNotFound", err)
	}
	if err := s.DeleteGame(1); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("delete twice: got %v, want ErrGameNotFound", err)
	}

	// Ids are not reused.
	third := &Game{StartFEN: "start"}
	testutil.AssertNoError(t, s.SaveGame(third))
	testutil.AssertEqual(t, third.ID, uint64(3), nil)
}

func TestGamesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, zerolog.Nop())
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.SaveGame(&Game{StartFEN: "start", Moves: []string{"e2e4"}}))
	testutil.AssertNoError(t, s.Close())

	s, err = Open(dir, zerolog.Nop())
	testutil.AssertNoError(t, err)
	defer s.Close()
	g, err := s.LoadGame(1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.Moves, []string{"e2e4"}, nil)
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir(dataDir)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, dbDir, filepath.Join(dataDir, "db"), nil)

	weightsDir, err := GetWeightsDir(dataDir)
	testutil.AssertNoError(t, err)
	if info, err := os.Stat(weightsDir); err != nil || !info.IsDir() {
		t.Errorf("weights directory missing: %v", err)
	}
}
