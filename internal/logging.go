package internal

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// InitLogging builds the process logger. Unknown levels fall back to info.
// Format "json" writes one JSON object per line; anything else is console output.
func InitLogging(level, format string) zerolog.Logger {
	return newLogger(os.Stderr, level, format)
}

func newLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "gtfs-shape-validator").
		Logger()
}
