// Package otel records OCR client activity as OpenTelemetry spans.
//
// Every HTTP request becomes a span named after the operation, timed with
// the timestamps carried by the telemetry events. Every wait becomes a
// "yvision.wait" span with one event per status check.
//
//	tp := sdktrace.NewTracerProvider(...)
//	hook := otel.NewTelemetryHook(tp.Tracer("yvision"))
//	client := ocr.New(creds, ocr.WithTelemetry(hook))
package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/yvision/core"
)

// Attribute keys.
const (
	AttrOperation   = attribute.Key("yvision.operation")
	AttrOperationID = attribute.Key("yvision.operation_id")
	AttrRequestID   = attribute.Key("yvision.request_id")
	AttrStatusCode  = attribute.Key("http.response.status_code")
	AttrAttempt     = attribute.Key("yvision.poll.attempt")
	AttrDone        = attribute.Key("yvision.poll.done")
	AttrDelayMillis = attribute.Key("yvision.poll.delay_ms")
)

// WaitSpanName is the name of the span covering one wait.
const WaitSpanName = "yvision.wait"

// TelemetryHook implements core.TelemetryHook on top of a tracer.
type TelemetryHook struct {
	tracer trace.Tracer
	parent context.Context

	mu    sync.Mutex
	waits map[string]trace.Span
}

// NewTelemetryHook creates a hook whose spans are roots.
func NewTelemetryHook(tracer trace.Tracer) *TelemetryHook {
	return NewTelemetryHookWithParent(context.Background(), tracer)
}

// NewTelemetryHookWithParent creates a hook whose spans are children of the
// span in parent, if any.
func NewTelemetryHookWithParent(parent context.Context, tracer trace.Tracer) *TelemetryHook {
	return &TelemetryHook{
		tracer: tracer,
		parent: parent,
		waits:  make(map[string]trace.Span),
	}
}

// OnRequestStart does nothing; the request span is recorded once it ends.
func (h *TelemetryHook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd records a span covering the request.
func (h *TelemetryHook) OnRequestEnd(e core.RequestEndEvent) {
	attrs := []attribute.KeyValue{AttrOperation.String(e.Operation)}
	if e.OperationID != "" {
		attrs = append(attrs, AttrOperationID.String(e.OperationID))
	}
	if e.StatusCode != 0 {
		attrs = append(attrs, AttrStatusCode.Int(e.StatusCode))
	}
	if e.RequestID != "" {
		attrs = append(attrs, AttrRequestID.String(e.RequestID))
	}

	_, span := h.tracer.Start(h.parentFor(e.OperationID), "yvision."+e.Operation,
		trace.WithTimestamp(e.Start),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	}
	span.End(trace.WithTimestamp(e.End))
}

// OnPoll adds an event to the wait span of the operation, starting the span on
// the first check and ending it on the last.
func (h *TelemetryHook) OnPoll(e core.PollEvent) {
	h.mu.Lock()
	span, ok := h.waits[e.OperationID]
	if !ok {
		_, span = h.tracer.Start(h.parent, WaitSpanName,
			trace.WithAttributes(AttrOperationID.String(e.OperationID)))
		h.waits[e.OperationID] = span
	}
	terminal := e.Done || e.Err != nil
	if terminal {
		delete(h.waits, e.OperationID)
	}
	h.mu.Unlock()

	span.AddEvent("poll", trace.WithAttributes(
		AttrAttempt.Int(e.Attempt),
		AttrDone.Bool(e.Done),
		AttrDelayMillis.Int64(e.Delay.Milliseconds()),
	))

	if !terminal {
		return
	}
	span.SetAttributes(AttrAttempt.Int(e.Attempt))
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	}
	span.End()
}

// parentFor nests request spans of an active wait under the wait span.
func (h *TelemetryHook) parentFor(operationID string) context.Context {
	if operationID == "" {
		return h.parent
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if span, ok := h.waits[operationID]; ok {
		return trace.ContextWithSpan(h.parent, span)
	}
	return h.parent
}

var _ core.TelemetryHook = (*TelemetryHook)(nil)
