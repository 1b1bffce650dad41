// Package debug provides the process-wide structured logger.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Options configures the logger.
type Options struct {
	// Enabled turns on debug-level output. When false only records at or
	// above Level are written.
	Enabled bool
	// Level is one of "debug", "info", "warn", "error" or "off".
	Level string
	// Writer receives log records. Defaults to os.Stderr.
	Writer io.Writer
}

var (
	// logger is the global logger instance
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	// enabled indicates if debug logging is enabled
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

// Init initializes the global logger.
// If opts.Enabled is true, debug records are written regardless of Level.
func Init(opts Options) error {
	level, off, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}
	if opts.Enabled {
		level, off = slog.LevelDebug, false
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if off {
		w = io.Discard
	}

	mu.Lock()
	defer mu.Unlock()

	enabled = opts.Enabled
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

// ParseLevel converts a level name into a slog.Level. The second return
// value reports whether logging is switched off entirely.
func ParseLevel(name string) (slog.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "off", "none":
		return slog.LevelError + 1, true, nil
	case "debug":
		return slog.LevelDebug, false, nil
	case "info":
		return slog.LevelInfo, false, nil
	case "warn", "warning":
		return slog.LevelWarn, false, nil
	case "error":
		return slog.LevelError, false, nil
	default:
		return 0, false, fmt.Errorf("unknown log level %q", name)
	}
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
