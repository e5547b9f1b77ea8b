package logger

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidLevel is returned when a level name is not recognised.
var ErrInvalidLevel = errors.New("invalid log level")

// Level represents the log level.
type Level string

const (
	// LevelDebug represents debug-level logging (most verbose).
	LevelDebug Level = "DEBUG"

	// LevelInfo represents info-level logging (standard verbosity).
	LevelInfo Level = "INFO"

	// LevelError represents error-level logging (least verbose).
	LevelError Level = "ERROR"
)

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo:
		return LevelInfo, nil
	case LevelError:
		return LevelError, nil
	default:
		return LevelInfo, errors.Wrapf(ErrInvalidLevel, "%q", s)
	}
}

// LevelFromFlags determines the log level from debug and trace flags.
func LevelFromFlags(debug, trace bool) Level {
	switch {
	case trace:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelError
	}
}
