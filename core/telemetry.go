package core

import "time"

// Operation names reported in telemetry events.
const (
	OpRecognizeText        = "recognize_text"
	OpStartTextRecognition = "start_text_recognition"
	OpGetOperation         = "get_operation"
	OpGetRecognition       = "get_recognition"
)

// TelemetryHook receives notifications about requests and polls.
// Implementations can use this for logging, metrics, or tracing.
//
// # Security
//
// Events never carry credentials, document content, or recognized text.
// Only operational metadata is exposed (operation name, ids, timing, status).
// Keep it that way when adding fields.
type TelemetryHook interface {
	// OnRequestStart is called before a request is handed to the transport.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called once the request completed or failed.
	OnRequestEnd(e RequestEndEvent)

	// OnPoll is called after every status check of a wait.
	OnPoll(e PollEvent)
}

// RequestStartEvent describes a request about to be sent.
type RequestStartEvent struct {
	Operation   string    // One of the Op* constants
	OperationID string    // Empty for recognize/start calls
	Start       time.Time // When the request started
}

// RequestEndEvent describes a finished request.
type RequestEndEvent struct {
	Operation   string
	OperationID string
	Start       time.Time
	End         time.Time
	StatusCode  int    // Zero when the transport failed
	RequestID   string // Response x-request-id, if any
	Err         error  // Error if the request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// PollEvent describes one iteration of a wait.
type PollEvent struct {
	OperationID string
	Attempt     int           // Zero-based poll index
	Done        bool          // Operation reported done
	Delay       time.Duration // Sleep before the next poll, zero when terminal
	Err         error         // Terminal error decided by this poll, if any
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// OnPoll does nothing.
func (NoopTelemetryHook) OnPoll(PollEvent) {}

// MultiTelemetryHook fans events out to several hooks in order.
type MultiTelemetryHook []TelemetryHook

// OnRequestStart forwards e to every hook.
func (m MultiTelemetryHook) OnRequestStart(e RequestStartEvent) {
	for _, h := range m {
		h.OnRequestStart(e)
	}
}

// OnRequestEnd forwards e to every hook.
func (m MultiTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	for _, h := range m {
		h.OnRequestEnd(e)
	}
}

// OnPoll forwards e to every hook.
func (m MultiTelemetryHook) OnPoll(e PollEvent) {
	for _, h := range m {
		h.OnPoll(e)
	}
}

// Compile-time checks.
var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = MultiTelemetryHook(nil)
)
