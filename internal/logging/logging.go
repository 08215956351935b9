// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New builds a logger at the given level writing to stderr, as JSON or
// human-readable console output. Unknown levels fall back to info.
func New(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = os.Stderr
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// RunID creates a short unique id tagging all log events of one run.
func RunID() string {
	return uuid.New().String()[:8]
}
