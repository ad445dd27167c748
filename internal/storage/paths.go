// Package storage provides persistent storage for self-play game records,
// user preferences and aggregate statistics.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesslite"

// DataDirEnv names the environment variable that replaces the platform data
// directory.
const DataDirEnv = "CHESSLITE_DATA"

// GetDataDir returns the application data directory, creating it if needed:
// $CHESSLITE_DATA when set, otherwise <data home>/chesslite where data home is
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME or ~/.local/share elsewhere.
func GetDataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		home, err := dataHome()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, appName)
	}
	return dir, ensureDir(dir)
}

// GetDatabaseDir returns the BadgerDB directory inside the data directory.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "db")
	return dbDir, ensureDir(dbDir)
}

func dataHome() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return underHome("Library", "Application Support")
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return underHome("AppData", "Roaming")
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	return underHome(".local", "share")
}

func underHome(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
