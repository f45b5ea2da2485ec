package logging

import (
	"go.uber.org/zap"

	"github.com/petal-labs/yvision/core"
)

// TelemetryHook logs client requests and polls.
// Only identifiers, status codes and timings are logged, never credentials
// or document content.
type TelemetryHook struct {
	logger *zap.Logger
}

// NewTelemetryHook returns a hook logging to logger. A nil logger discards
// everything.
func NewTelemetryHook(logger *zap.Logger) *TelemetryHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelemetryHook{logger: logger}
}

// OnRequestStart logs at debug level.
func (h *TelemetryHook) OnRequestStart(e core.RequestStartEvent) {
	WithOperation(h.logger, e.Operation, e.OperationID).Debug("request started")
}

// OnRequestEnd logs successful requests at debug level and failures at warn.
func (h *TelemetryHook) OnRequestEnd(e core.RequestEndEvent) {
	fields := []zap.Field{zap.Duration("duration", e.Duration())}
	if e.StatusCode != 0 {
		fields = append(fields, zap.Int("status", e.StatusCode))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}

	logger := WithOperation(h.logger, e.Operation, e.OperationID)
	if e.Err != nil {
		logger.Warn("request failed", append(fields, zap.Error(e.Err))...)
		return
	}
	logger.Debug("request finished", fields...)
}

// OnPoll logs every status check. The poll that ends a wait with an error
// is logged at warn.
func (h *TelemetryHook) OnPoll(e core.PollEvent) {
	fields := []zap.Field{
		zap.String("operation_id", e.OperationID),
		zap.Int("attempt", e.Attempt),
		zap.Bool("done", e.Done),
	}
	if e.Delay > 0 {
		fields = append(fields, zap.Duration("delay", e.Delay))
	}

	if e.Err != nil {
		h.logger.Warn("wait stopped", append(fields, zap.Error(e.Err))...)
		return
	}
	h.logger.Debug("operation polled", fields...)
}

var _ core.TelemetryHook = (*TelemetryHook)(nil)
