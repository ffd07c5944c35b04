// Package storage persists preferences, statistics and saved games.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "twisted-neurons"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/twisted-neurons/
// - Linux: ~/.local/share/twisted-neurons/
// - Windows: %APPDATA%/twisted-neurons/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return ensureDir(filepath.Join(baseDir, appName))
}

// GetWeightsDir returns the directory for evaluator weight files under dataDir.
func GetWeightsDir(dataDir string) (string, error) {
	return ensureDir(filepath.Join(dataDir, "weights"))
}

// GetDatabaseDir returns the directory for the BadgerDB database under dataDir.
func GetDatabaseDir(dataDir string) (string, error) {
	return ensureDir(filepath.Join(dataDir, "db"))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
