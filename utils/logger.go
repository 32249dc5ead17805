package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application.
// It keeps a printf-style API on top of zerolog.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a Logger writing human-readable output to stdout at info level.
func NewLogger() *Logger {
	return NewLoggerWith("info", "console", os.Stdout)
}

// NewLoggerWith creates a Logger with an explicit level ("debug", "info",
// "warn", "error") and format ("console" or "json").
func NewLoggerWith(level, format string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	if strings.ToLower(format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}
	zl := zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewNopLogger returns a Logger that discards everything. Useful in tests.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// Elapsed logs how long an operation took at debug level.
func (l *Logger) Elapsed(operation string, start time.Time) {
	l.zl.Debug().Str("op", operation).Dur("took", time.Since(start)).Msg("done")
}
