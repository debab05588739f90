// Package logging builds the zerolog loggers shared by the converter core and the UI.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when the configured level is empty or unknown
const DefaultLevel = zerolog.InfoLevel

// New creates a console logger writing to w at the given level
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(console).With().Timestamp().Logger().Level(level)
}

// ParseLevel converts a settings value ("debug", "info", ...) into a zerolog level
func ParseLevel(value string) zerolog.Level {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return DefaultLevel
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil || level == zerolog.NoLevel {
		return DefaultLevel
	}
	return level
}
