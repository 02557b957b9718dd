// Package types holds the logging primitives shared by the logger and its adapters.
package types

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogLevel is zap's level type
type LogLevel = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

// ParseLogLevel parses a level name, falling back to InfoLevel
func ParseLogLevel(levelStr string) LogLevel {
	name := strings.ToLower(strings.TrimSpace(levelStr))
	if name == "warning" {
		name = "warn"
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return InfoLevel
	}
	return level
}

// LogEntry is one record handed to every adapter
type LogEntry struct {
	Level     LogLevel
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
	Context   context.Context
}

// LogAdapter is an output destination for log entries
type LogAdapter interface {
	Write(entry *LogEntry) error
	Close() error
	Health() error
	Name() string
}

// AdapterConfig mirrors one entry of logging.adapters in the YAML config
type AdapterConfig struct {
	Name    string
	Type    string
	Enabled bool
	Options map[string]interface{}
}
