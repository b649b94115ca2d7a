// Package logging provides the shared logger used across starkmeta. Each package is
// expected to derive its own sub-logger so log output stays grep-able by component.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// GlobalLogger is disabled by default and configured once at startup; packages derive
// sub-loggers from it rather than constructing their own.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// Logger wraps a structured multi-writer logger and an unstructured console logger so
// the same event can feed both machine-readable sinks and a human-readable console.
type Logger struct {
	// level is the log level both underlying loggers emit at.
	level zerolog.Level

	// multiLogger writes structured output to every registered writer.
	multiLogger zerolog.Logger

	// consoleLogger writes human-readable output to stdout, if enabled.
	consoleLogger zerolog.Logger
}

// NewLogger creates a Logger at the given level. Console output is emitted when
// consoleEnabled is set; structured output goes to the provided writers, if any.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	// Both base loggers start disabled so an unconfigured Logger is inert rather than
	// a nil dereference.
	multiLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	consoleLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	if len(writers) > 0 {
		multiLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}
	if consoleEnabled {
		consoleLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level)
	}
	return &Logger{
		level:         level,
		multiLogger:   multiLogger,
		consoleLogger: consoleLogger,
	}
}

// NewSubLogger creates a Logger that tags every event with the given key-value pair.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	return &Logger{
		level:         l.level,
		multiLogger:   l.multiLogger.With().Str(key, value).Logger(),
		consoleLogger: l.consoleLogger.With().Str(key, value).Logger(),
	}
}

// Level returns the log level of the logger.
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel updates the log level of the logger. Channels that were never enabled
// stay disabled.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	if l.multiLogger.GetLevel() != zerolog.Disabled {
		l.multiLogger = l.multiLogger.Level(level)
	}
	if l.consoleLogger.GetLevel() != zerolog.Disabled {
		l.consoleLogger = l.consoleLogger.Level(level)
	}
}

// Debug logs the given arguments at the debug level.
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info logs the given arguments at the info level.
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn logs the given arguments at the warn level.
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error logs the given arguments at the error level.
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// log renders the arguments once and emits the event on both underlying loggers.
func (l *Logger) log(level zerolog.Level, args ...any) {
	message := fmt.Sprint(args...)
	l.multiLogger.WithLevel(level).Msg(message)
	l.consoleLogger.WithLevel(level).Msg(message)
}
