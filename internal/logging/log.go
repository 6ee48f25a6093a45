// Package logging provides structured logging for the launcher.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// JSON selects the JSON-lines handler instead of the text handler.
	JSON bool

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a structured logger. The JSON variant renames the time key
// to "ts":
//
//	{"ts":"2024-01-15T10:30:00Z","level":"INFO","msg":"index rebuilt","entries":212}
//
// Log levels:
//   - debug: per-entry index decisions, search timings (LAUNCHER_DEBUG=1)
//   - info: index rebuilds, rate refreshes
//   - warn: skipped descriptors, unreadable directories, rate fetch failures
//   - error: history persistence failures, lost search completion signals
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if !cfg.JSON {
		return slog.New(slog.NewTextHandler(output, opts))
	}

	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && len(groups) == 0 {
			a.Key = "ts"
		}
		return a
	}
	return slog.New(slog.NewJSONHandler(output, opts))
}

// ParseLevel converts a config level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", name)
	}
}

// Open builds a logger from config values. An empty file logs to stderr;
// otherwise the file is opened for appending and returned so the caller
// can close it.
func Open(level, format, file string) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	cfg := &Config{
		Output: os.Stderr,
		Level:  lvl,
		JSON:   format == "json",
	}

	if file == "" {
		return New(cfg), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	cfg.Output = f
	return New(cfg), f, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// LogIndexRebuilt logs a completed index rebuild.
func LogIndexRebuilt(logger *slog.Logger, entries, skipped int, dirs []string) {
	logger.Info("index rebuilt",
		"entries", entries,
		"skipped", skipped,
		"dirs", dirs,
	)
}

// LogDescriptorSkipped logs a descriptor that could not be indexed.
func LogDescriptorSkipped(logger *slog.Logger, path string, reason string) {
	logger.Debug("descriptor skipped", "path", path, "reason", reason)
}

// LogRatesRefreshed logs a currency table refresh.
func LogRatesRefreshed(logger *slog.Logger, reference string, currencies int, fromCache bool) {
	logger.Info("currency rates loaded",
		"reference", reference,
		"currencies", currencies,
		"from_cache", fromCache,
	)
}

// LogSQLiteError logs SQLite errors.
func LogSQLiteError(logger *slog.Logger, operation string, err error) {
	logger.Error("sqlite error", "operation", operation, "error", err)
}
