// Package logger configures the zerolog logger shared across the service.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger at the given level. Development mode gets a
// human-friendly console writer; production emits plain JSON lines.
func New(level string, production bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if production {
		return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	}

	console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.Kitchen
	})
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}
