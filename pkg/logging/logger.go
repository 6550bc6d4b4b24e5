// Package logging wraps the structured logger shared across the core's
// packages. It follows the global-logger-plus-contextual-With pattern used by
// VoidMesh-api's internal/logging package, backed here by charmbracelet/log.
package logging

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var base *log.Logger

// Level mirrors the handful of levels the core actually logs at.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

func init() {
	base = log.New(os.Stderr)
	base.SetReportTimestamp(true)
	setLevel(base, levelFromEnv())
}

func levelFromEnv() Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WORLDCORE_LOG_LEVEL"))) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func setLevel(l *log.Logger, level Level) {
	switch level {
	case DebugLevel:
		l.SetLevel(log.DebugLevel)
	case WarnLevel:
		l.SetLevel(log.WarnLevel)
	case ErrorLevel:
		l.SetLevel(log.ErrorLevel)
	default:
		l.SetLevel(log.InfoLevel)
	}
}

// Get returns the process-wide logger.
func Get() *log.Logger {
	return base
}

// With returns a logger annotated with the given key/value pairs, a
// "component" field identifying the calling subsystem.
func With(component string, kv ...interface{}) *log.Logger {
	args := append([]interface{}{"component", component}, kv...)
	return base.With(args...)
}
