// Package testutil provides common test utilities for the booklogger project.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/dafioram/BookLogger/internal/cache"
	"github.com/dafioram/BookLogger/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	GoogleBooksAPIKey string
	LibraryDBFile     string
	CoversDir         string
	MatchThreshold    int
	OverwriteCovers   bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		GoogleBooksAPIKey: config.GoogleBooksAPIKey,
		LibraryDBFile:     config.LibraryDBFile,
		CoversDir:         config.CoversDir,
		MatchThreshold:    config.MatchThreshold,
		OverwriteCovers:   config.OverwriteCovers,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.GoogleBooksAPIKey = state.GoogleBooksAPIKey
	config.LibraryDBFile = state.LibraryDBFile
	config.CoversDir = state.CoversDir
	config.MatchThreshold = state.MatchThreshold
	config.OverwriteCovers = state.OverwriteCovers
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with common defaults.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	config.GoogleBooksAPIKey = ""
	config.LibraryDBFile = filepath.Join(t.TempDir(), "library.db")
	config.CoversDir = t.TempDir()
	config.MatchThreshold = 40
	config.OverwriteCovers = false

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetupTestCache points the global response cache at a throwaway
// database under the test's temp directory and resets the singleton
// both before and after the test.
func SetupTestCache(t *testing.T) {
	t.Helper()

	ResetConfig(t)
	_ = cache.ResetGlobalCache()

	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "cache.db"))

	t.Cleanup(func() { _ = cache.ResetGlobalCache() })
}
