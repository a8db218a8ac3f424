// Package logging provides shared component loggers for dirdiff.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logger := logging.Get("pipeline")
//	logger.Info("build started", "root", root)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an unknown log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// Config configures the logging system.
type Config struct {
	// Level is the log level: debug, info, warn, or error.
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Console also mirrors log output to stderr when true.
	Console bool
}

// parseLevel converts a level string to a charmbracelet/log level.
func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// state holds the global logging state.
type state struct {
	mu          sync.Mutex
	initialized bool
	file        *os.File
	level       log.Level
	console     bool
	loggers     map[string]*log.Logger
}

var globalState = &state{
	loggers: make(map[string]*log.Logger),
}

// Init initializes the logging system. Before Init is called, all loggers
// write to io.Discard.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	if globalState.file != nil {
		_ = globalState.file.Close()
	}
	globalState.file = file
	globalState.level = level
	globalState.console = cfg.Console
	globalState.initialized = true

	// Recreate existing loggers with the new configuration.
	for component := range globalState.loggers {
		globalState.loggers[component] = createLogger(component)
	}

	return nil
}

// Get returns a logger for the given component. Loggers are cached per
// component name.
func Get(component string) *log.Logger {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}

	logger := createLogger(component)
	globalState.loggers[component] = logger
	return logger
}

// createLogger builds a logger for the component. Must be called with
// globalState.mu held.
func createLogger(component string) *log.Logger {
	if !globalState.initialized {
		return log.NewWithOptions(io.Discard, log.Options{Prefix: component})
	}

	var w io.Writer = globalState.file
	if globalState.console {
		w = io.MultiWriter(globalState.file, os.Stderr)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           globalState.level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})
}

// Close flushes and closes the log file. Call on application exit.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if !globalState.initialized {
		return nil
	}

	globalState.initialized = false
	globalState.loggers = make(map[string]*log.Logger)

	if globalState.file != nil {
		if err := globalState.file.Close(); err != nil {
			return fmt.Errorf("closing log file: %w", err)
		}
		globalState.file = nil
	}

	return nil
}

// DefaultLogPath returns the default log file path,
// $XDG_STATE_HOME/dirdiff/dirdiff.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "dirdiff", "dirdiff.log")
}
