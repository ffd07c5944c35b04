package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "game_seq"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned when no game has the requested id.
var ErrGameNotFound = errors.New("game not found")

// UserPreferences stores user settings
type UserPreferences struct {
	Difficulty  string    `json:"difficulty"`
	Depth       int       `json:"depth"`
	PlayerColor string    `json:"player_color"`
	WeightsFile string    `json:"weights_file"`
	LastPlayed  time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Difficulty:  "medium",
		PlayerColor: "w",
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDepth    map[string]int `json:"wins_by_depth"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByDepth: make(map[string]int),
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Game is a saved game: where it started, the moves in coordinate
// notation and how it ended ("*" while unfinished).
type Game struct {
	ID       uint64    `json:"id"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	Result   string    `json:"result"`
	Player   string    `json:"player"`
	Depth    int       `json:"depth"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database in dir.
func Open(dir string, log zerolog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts, log)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(log zerolog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, log)
}

func open(opts badger.Options, log zerolog.Logger) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug().Str("dir", opts.Dir).Bool("in_memory", opts.InMemory).Msg("storage opened")
	return &Storage{db: db, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) putJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value at key into v and reports whether it existed.
func (s *Storage) getJSON(key string, v interface{}) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.getJSON(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.WinsByDepth == nil {
		stats.WinsByDepth = make(map[string]int)
	}
	return stats, nil
}

// RecordResult updates the statistics with a finished game seen from the
// player's side.
func (s *Storage) RecordResult(won, draw bool, depth int) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	if draw {
		stats.Draws++
		stats.CurrentStreak = 0
	} else if won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByDepth[fmt.Sprint(depth)]++
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

func gameKey(id uint64) []byte {
	key := make([]byte, len(gamePrefix)+8)
	copy(key, gamePrefix)
	binary.BigEndian.PutUint64(key[len(gamePrefix):], id)
	return key
}

// SaveGame stores g. A game with ID 0 gets the next free id; otherwise the
// stored game with the same id is replaced.
func (s *Storage) SaveGame(g *Game) error {
	now := time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		if g.ID == 0 {
			id, err := nextID(txn)
			if err != nil {
				return err
			}
			g.ID = id
			g.Created = now
		}
		g.Updated = now

		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		if err := txn.Set(gameKey(g.ID), data); err != nil {
			return err
		}
		s.log.Debug().Uint64("id", g.ID).Int("moves", len(g.Moves)).Msg("game saved")
		return nil
	})
}

func nextID(txn *badger.Txn) (uint64, error) {
	var last uint64
	item, err := txn.Get([]byte(keyGameSeq))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt game sequence")
			}
			last = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return 0, err
		}
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, last+1)
	if err := txn.Set([]byte(keyGameSeq), next); err != nil {
		return 0, err
	}
	return last + 1, nil
}

// LoadGame returns the game with the given id.
func (s *Storage) LoadGame(id uint64) (*Game, error) {
	var g Game
	found, err := s.getJSON(string(gameKey(id)), &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	return &g, nil
}

// ListGames returns all saved games in id order.
func (s *Storage) ListGames() ([]Game, error) {
	var games []Game
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var g Game
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &g)
			}); err != nil {
				return err
			}
			games = append(games, g)
		}
		return nil
	})
	return games, err
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(id uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %d", ErrGameNotFound, id)
			}
			return err
		}
		return txn.Delete(gameKey(id))
	})
}
