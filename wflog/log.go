package wflog

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger is the zerolog instance every package-level helper writes
// through before fanning out to registered sinks. A console writer at
// info level mirrors the default most zerolog-based services in the
// wild ship with.
var defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// SetLevel adjusts the minimum severity the default sink writes out.
// Registered sinks still receive every call regardless of level.
func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		defaultLogger = defaultLogger.Level(zerolog.DebugLevel)
	case LevelInfo:
		defaultLogger = defaultLogger.Level(zerolog.InfoLevel)
	case LevelWarn:
		defaultLogger = defaultLogger.Level(zerolog.WarnLevel)
	case LevelError:
		defaultLogger = defaultLogger.Level(zerolog.ErrorLevel)
	}
}

// Debug logs a low-level trace line (frame dumps, decoder transitions).
func Debug(msg string) {
	defaultLogger.Debug().Msg(msg)
	dispatch(LevelDebug, msg)
}

// Debugf is Debug with fmt-style formatting.
func Debugf(format string, args ...any) {
	defaultLogger.Debug().Msgf(format, args...)
	dispatch(LevelDebug, sprintf(format, args...))
}

// Info logs a normal lifecycle event (accept, upgrade, close).
func Info(msg string) {
	defaultLogger.Info().Msg(msg)
	dispatch(LevelInfo, msg)
}

// Infof is Info with fmt-style formatting.
func Infof(format string, args ...any) {
	defaultLogger.Info().Msgf(format, args...)
	dispatch(LevelInfo, sprintf(format, args...))
}

// Warn logs a recoverable problem (unknown callable, dropped malformed
// message) that the core handled without tearing down the connection.
func Warn(msg string) {
	defaultLogger.Warn().Msg(msg)
	dispatch(LevelWarn, msg)
}

// Warnf is Warn with fmt-style formatting.
func Warnf(format string, args ...any) {
	defaultLogger.Warn().Msgf(format, args...)
	dispatch(LevelWarn, sprintf(format, args...))
}

// Error logs a transport or protocol failure that ended a connection.
func Error(msg string) {
	defaultLogger.Error().Msg(msg)
	dispatch(LevelError, msg)
}

// Errorf is Error with fmt-style formatting.
func Errorf(format string, args ...any) {
	defaultLogger.Error().Msgf(format, args...)
	dispatch(LevelError, sprintf(format, args...))
}
