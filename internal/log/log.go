/*
Package log provides structured logging for metaldb using zerolog.

metaldb is a library, not a process, so the package defaults to a disabled
logger: nothing is written until a host application calls Init. Once
initialized, the backend and migration engine log structural events
(bucket creation, checkpointing, migration flush) rather than swallowing
them silently.
*/
package log

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the package-level logger used by metaldb's internals. It is a
// no-op logger until Init is called, so importing metaldb never produces
// output on its own.
var Logger zerolog.Logger = zerolog.Nop()

// Level mirrors the levels zerolog understands.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration for Init.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init installs the package-level logger. Hosting applications call this
// once during startup; metaldb itself never calls it.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{Out: output}).Level(level).With().Timestamp().Logger()
	}
}

// WithComponent returns a child logger tagged with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithAddress returns a child logger tagged with a resolved index address
// (its column family and key prefix).
func WithAddress(cf string, prefix []byte) zerolog.Logger {
	return Logger.With().Str("cf", cf).Bytes("prefix", prefix).Logger()
}
