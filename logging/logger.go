// Package logging wires zap structured logging into the OCR client.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a structured logger writing to stderr.
// verbose switches to a development config at debug level.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// WithOperation enriches the logger with operation and request identifiers.
func WithOperation(logger *zap.Logger, operation, operationID string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if operationID != "" {
		fields = append(fields, zap.String("operation_id", operationID))
	}
	return logger.With(fields...)
}
