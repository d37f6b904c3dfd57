// Package logger configures the process-wide zerolog logger. JSON output by
// default; set LOG_PRETTY=1 for human-readable console output during
// development.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	return NewWithOutput(level, nil)
}

// NewWithOutput is New with an explicit output writer, used by tests.
func NewWithOutput(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if out == nil {
		if os.Getenv("LOG_PRETTY") != "" {
			out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		} else {
			out = os.Stdout
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "mediascribe").
		Logger()
}
