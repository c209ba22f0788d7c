// Package observability configures the zerolog logger shared by the engine
// and the CLI.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
	Output io.Writer
}

// NewLogger builds a zerolog.Logger from the given configuration.
func NewLogger(cfg LogConfig) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	} else {
		logger = zerolog.New(output)
	}

	return logger.
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "prospector").
		Logger()
}

// Default returns a console logger at info level.
func Default() zerolog.Logger {
	return NewLogger(LogConfig{Level: "info", Format: "console"})
}

// Nop returns a disabled logger, useful in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
