package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todo-list/internal/logging"
	"todo-list/internal/repository/sqlite"
	"todo-list/internal/repository/textfile"
)

// CreateRepository opens the task database named by the configuration,
// creating its directory first.
func CreateRepository(config *Config) (sqlite.Repository, error) {
	if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	repo, err := sqlite.New(config.GetDatabasePath(), sqlite.WithBusyTimeout(config.Database.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTextStore returns the flat-file store named by the configuration
func CreateTextStore(config *Config) (*textfile.FileStore, error) {
	store, err := textfile.New(config.TextStore.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text store: %w", err)
	}
	return store, nil
}

// CreateLogger builds the process logger writing to w. Debug mode forces
// the debug level.
func CreateLogger(config *Config, w io.Writer) (*log.Logger, error) {
	level := config.Logging.Level
	if config.Logging.Debug {
		level = "debug"
	}
	return logging.New(w, level, logging.Format(config.Logging.Format))
}
