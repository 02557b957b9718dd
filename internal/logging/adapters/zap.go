package adapters

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"interview-companion/internal/logging/types"
)

// zapWriter turns log entries into zap records on a single core
type zapWriter struct {
	logger *zap.Logger
}

func newZapWriter(format string, colorized bool, outputPaths []string) (*zapWriter, error) {
	encoding := "json"
	if strings.EqualFold(format, "text") || strings.EqualFold(format, "console") {
		encoding = "console"
	}

	encodeLevel := zapcore.LowercaseLevelEncoder
	if colorized && encoding == "console" {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			EncodeLevel: encodeLevel,
			TimeKey:     "time",
			EncodeTime:  zapcore.RFC3339TimeEncoder,
		},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return &zapWriter{logger: logger}, nil
}

func (w *zapWriter) write(entry *types.LogEntry) error {
	ce := w.logger.Check(toZapLevel(entry.Level), entry.Message)
	if ce == nil {
		return nil
	}
	ce.Time = entry.Timestamp

	fields := make([]zap.Field, 0, len(entry.Fields))
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			fields = append(fields, zap.NamedError(k, err))
			continue
		}
		fields = append(fields, zap.Any(k, v))
	}
	ce.Write(fields...)
	return nil
}

func (w *zapWriter) sync() error {
	return w.logger.Sync()
}

// Fatal entries are written at error level: exiting is the logger's job, not the adapter's.
func toZapLevel(level types.LogLevel) zapcore.Level {
	if level >= types.FatalLevel {
		return zapcore.ErrorLevel
	}
	return level
}
