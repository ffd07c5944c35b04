// Package config holds the program settings and their validation.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/engine"
	"github.com/hhhao/twisted-neurons/internal/logging"
	"github.com/hhhao/twisted-neurons/internal/storage"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

// MaxDepth is the deepest search accepted.
const MaxDepth = 6

// Config holds all program settings.
type Config struct {
	Difficulty  string        // easy, medium or hard
	Depth       int           // explicit search depth, 0 uses the difficulty
	Player      string        // "w" or "b"
	DataDir     string        // database and weights live here; empty for the platform default
	WeightsFile string        // network weights, empty for the material evaluator
	LogLevel    string        // zerolog level name
	Pace        time.Duration // delay between self-play ticks
	InMemory    bool          // keep saved games in memory only
}

// Default returns the settings used when nothing else is given.
func Default() *Config {
	return &Config{
		Difficulty: "medium",
		Player:     "w",
		LogLevel:   "info",
		Pace:       300 * time.Millisecond,
	}
}

// Validate checks every field and reports the first bad one.
func (c *Config) Validate() error {
	if _, err := engine.ParseDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Depth < 0 || c.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d outside 0..%d", ErrInvalidConfig, c.Depth, MaxDepth)
	}
	if _, ok := board.ParseColor(c.Player); !ok {
		return fmt.Errorf("%w: player color %q", ErrInvalidConfig, c.Player)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Pace < 0 {
		return fmt.Errorf("%w: negative pace %s", ErrInvalidConfig, c.Pace)
	}
	return nil
}

// PlayerColor returns the validated player color.
func (c *Config) PlayerColor() board.Color {
	color, ok := board.ParseColor(c.Player)
	if !ok {
		return board.White
	}
	return color
}

// ApplyPreferences fills the fields that were left at their defaults from
// stored preferences. set lists the fields given explicitly, by flag name.
func (c *Config) ApplyPreferences(prefs *storage.UserPreferences, set map[string]bool) {
	if prefs == nil {
		return
	}
	if !set["difficulty"] && prefs.Difficulty != "" {
		c.Difficulty = prefs.Difficulty
	}
	if !set["depth"] && prefs.Depth > 0 {
		c.Depth = prefs.Depth
	}
	if !set["player"] && prefs.PlayerColor != "" {
		c.Player = prefs.PlayerColor
	}
	if !set["weights"] && prefs.WeightsFile != "" {
		c.WeightsFile = prefs.WeightsFile
	}
}

// Preferences returns the settings worth remembering between runs.
func (c *Config) Preferences() *storage.UserPreferences {
	return &storage.UserPreferences{
		Difficulty:  c.Difficulty,
		Depth:       c.Depth,
		PlayerColor: c.Player,
		WeightsFile: c.WeightsFile,
	}
}
