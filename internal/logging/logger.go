// Package logging builds the zerolog logger used across gitfav and carries
// it through context.Context.
//
// The TUI owns the terminal, so interactive sessions log to a file under the
// data directory; CLI subcommands log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error, disabled).
	Level string

	// Format is json or console.
	Format string

	// Output is stderr, stdout, discard, or a file path.
	Output string
}

// Nop discards everything.
var Nop = zerolog.Nop()

// New creates a logger from cfg. The returned close function releases the
// log file when Output is a path; it is a no-op otherwise.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	out, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return Nop, noopClose, err
	}

	var w io.Writer = out
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: true}
	}

	logger := zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return logger, closeFn, nil
}

func openOutput(output string) (io.Writer, func() error, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, noopClose, nil
	case "stdout":
		return os.Stdout, noopClose, nil
	case "discard", "none":
		return io.Discard, noopClose, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f.Close, nil
}

func noopClose() error { return nil }

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}
