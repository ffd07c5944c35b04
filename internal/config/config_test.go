package config

import (
	"errors"
	"testing"
	"time"

	"github.com/hhhao/twisted-neurons/internal/board"
	"github.com/hhhao/twisted-neurons/internal/storage"
	"github.com/hhhao/twisted-neurons/internal/testutil"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	testutil.AssertNoError(t, cfg.Validate())
	if cfg.Difficulty != "medium" {
		t.Errorf("Difficulty = %q, want medium", cfg.Difficulty)
	}
	if cfg.PlayerColor() != board.White {
		t.Errorf("PlayerColor = %v, want white", cfg.PlayerColor())
	}
	if cfg.Pace != 300*time.Millisecond {
		t.Errorf("Pace = %v, want 300ms", cfg.Pace)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"hard", func(c *Config) { c.Difficulty = "hard" }, true},
		{"black", func(c *Config) { c.Player = "b" }, true},
		{"max depth", func(c *Config) { c.Depth = MaxDepth }, true},
		{"unknown difficulty", func(c *Config) { c.Difficulty = "insane" }, false},
		{"negative depth", func(c *Config) { c.Depth = -1 }, false},
		{"deep", func(c *Config) { c.Depth = MaxDepth + 1 }, false},
		{"bad color", func(c *Config) { c.Player = "red" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "noisy" }, false},
		{"negative pace", func(c *Config) { c.Pace = -time.Second }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyPreferences(t *testing.T) {
	prefs := &storage.UserPreferences{
		Difficulty:  "hard",
		Depth:       3,
		PlayerColor: "b",
		WeightsFile: "net.bin",
	}

	cfg := Default()
	cfg.Depth = 1
	cfg.ApplyPreferences(prefs, map[string]bool{"depth": true})

	testutil.AssertEqual(t, cfg.Difficulty, "hard", nil)
	testutil.AssertEqual(t, cfg.Depth, 1, nil, "explicit flag wins")
	testutil.AssertEqual(t, cfg.PlayerColor(), board.Black, nil)
	testutil.AssertEqual(t, cfg.WeightsFile, "net.bin", nil)

	back := cfg.Preferences()
	testutil.AssertEqual(t, back.Depth, 1, nil)
	testutil.AssertEqual(t, back.PlayerColor, "b", nil)

	cfg.ApplyPreferences(nil, nil)
	testutil.AssertEqual(t, cfg.Difficulty, "hard", nil)
}
