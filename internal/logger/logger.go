package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging scoped by component name.
type Logger interface {
	Info(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Debug(component string, message string, fields map[string]interface{})
}

// ParseLevel maps a config/env level name onto a zerolog level.
// Unknown names fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NoOp discards everything.
type NoOp struct{}

func (NoOp) Info(string, string, map[string]interface{})    {}
func (NoOp) Error(string, error, map[string]interface{})    {}
func (NoOp) Warning(string, string, map[string]interface{}) {}
func (NoOp) Debug(string, string, map[string]interface{})   {}
