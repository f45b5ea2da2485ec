package core

import (
	"errors"
	"testing"
	"time"
)

// recordingHook is a TelemetryHook that records every event.
type recordingHook struct {
	starts []RequestStartEvent
	ends   []RequestEndEvent
	polls  []PollEvent
}

func (h *recordingHook) OnRequestStart(e RequestStartEvent) { h.starts = append(h.starts, e) }
func (h *recordingHook) OnRequestEnd(e RequestEndEvent)     { h.ends = append(h.ends, e) }
func (h *recordingHook) OnPoll(e PollEvent)                 { h.polls = append(h.polls, e) }

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Now()
	e := RequestEndEvent{Start: start, End: start.Add(750 * time.Millisecond)}
	if got := e.Duration(); got != 750*time.Millisecond {
		t.Errorf("Duration() = %v, want 750ms", got)
	}
}

func TestNoopTelemetryHook(t *testing.T) {
	var hook TelemetryHook = NoopTelemetryHook{}

	// Must not panic.
	hook.OnRequestStart(RequestStartEvent{Operation: OpGetOperation})
	hook.OnRequestEnd(RequestEndEvent{Operation: OpGetOperation, Err: errors.New("x")})
	hook.OnPoll(PollEvent{OperationID: "op-1"})
}

func TestMultiTelemetryHook(t *testing.T) {
	a, b := &recordingHook{}, &recordingHook{}
	multi := MultiTelemetryHook{a, b}

	multi.OnRequestStart(RequestStartEvent{Operation: OpRecognizeText})
	multi.OnRequestEnd(RequestEndEvent{Operation: OpRecognizeText, StatusCode: 200})
	multi.OnPoll(PollEvent{OperationID: "op-1", Attempt: 2, Done: true})

	for name, h := range map[string]*recordingHook{"a": a, "b": b} {
		if len(h.starts) != 1 || len(h.ends) != 1 || len(h.polls) != 1 {
			t.Errorf("hook %s got %d/%d/%d events, want 1/1/1", name, len(h.starts), len(h.ends), len(h.polls))
			continue
		}
		if h.polls[0].Attempt != 2 {
			t.Errorf("hook %s poll attempt = %d, want 2", name, h.polls[0].Attempt)
		}
	}
}
