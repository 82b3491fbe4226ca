// Package logger provides leveled, printf-style logging for the CLI.
// Output goes to stderr so command results on stdout stay clean.
package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = newLogger(zerolog.WarnLevel)
)

func newLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables debug logging. Without it only warnings and errors
// are emitted.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		log = newLogger(zerolog.DebugLevel)
	} else {
		log = newLogger(zerolog.WarnLevel)
	}
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a debug-level message.
func Debug(format string, args ...any) {
	l := current()
	l.Debug().Msgf(format, args...)
}

// Info logs an info-level message.
func Info(format string, args ...any) {
	l := current()
	l.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	l := current()
	l.Warn().Msgf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	l := current()
	l.Error().Msgf(format, args...)
}
