package ocr

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/petal-labs/yvision/core"
)

const (
	testOCRBase       = "https://ocr.test/ocr/v1"
	testOperationBase = "https://operation.test/operations"
)

// fakeTransport records every request and answers with handle.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*core.Request
	handle   func(ctx context.Context, req *core.Request) (*core.Response, error)
}

func (f *fakeTransport) Send(ctx context.Context, req *core.Request) (*core.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	handle := f.handle
	f.mu.Unlock()

	if handle == nil {
		return jsonResponse(http.StatusOK, `{}`), nil
	}
	return handle(ctx, req)
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeTransport) last() *core.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func jsonResponse(status int, body string) *core.Response {
	return &core.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}

// scriptedOperations serves operation statuses and recognition results per
// operation id. The last status of a script repeats once it is exhausted.
type scriptedOperations struct {
	mu       sync.Mutex
	statuses map[string][]string
	results  map[string]string
	polls    map[string]int
	fetches  map[string]int
}

func newScriptedOperations() *scriptedOperations {
	return &scriptedOperations{
		statuses: make(map[string][]string),
		results:  make(map[string]string),
		polls:    make(map[string]int),
		fetches:  make(map[string]int),
	}
}

func (s *scriptedOperations) handle(_ context.Context, req *core.Request) (*core.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rest, ok := strings.CutPrefix(req.URL, testOperationBase+"/"); ok {
		id, err := url.PathUnescape(rest)
		if err != nil {
			return nil, err
		}
		script := s.statuses[id]
		if len(script) == 0 {
			return jsonResponse(http.StatusNotFound, `{"message":"not found"}`), nil
		}
		n := min(s.polls[id], len(script)-1)
		s.polls[id]++
		return jsonResponse(http.StatusOK, script[n]), nil
	}

	if rest, ok := strings.CutPrefix(req.URL, testOCRBase+"/getRecognition?"); ok {
		query, err := url.ParseQuery(rest)
		if err != nil {
			return nil, err
		}
		id := query.Get("operationId")
		s.fetches[id]++
		return jsonResponse(http.StatusOK, s.results[id]), nil
	}

	return jsonResponse(http.StatusNotFound, `{}`), nil
}

func (s *scriptedOperations) pollCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls[id]
}

func (s *scriptedOperations) fetchCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[id]
}

// fakeClock replaces the client's clock and sleep. Sleeping advances time.
type fakeClock struct {
	mu     sync.Mutex
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return nil
}

func (c *fakeClock) slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// recordingHook captures telemetry events.
type recordingHook struct {
	mu     sync.Mutex
	starts []core.RequestStartEvent
	ends   []core.RequestEndEvent
	polls  []core.PollEvent
}

func (h *recordingHook) OnRequestStart(e core.RequestStartEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, e)
}

func (h *recordingHook) OnRequestEnd(e core.RequestEndEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, e)
}

func (h *recordingHook) OnPoll(e core.PollEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.polls = append(h.polls, e)
}

func newTestClient(tr core.Transport, opts ...Option) *Client {
	base := []Option{
		WithTransport(tr),
		WithOCRBaseURL(testOCRBase),
		WithOperationBaseURL(testOperationBase),
	}
	return New(core.NewAPIKey("test-key"), append(base, opts...)...)
}

// newWaitClient returns a client whose clock is clk and whose transport
// serves ops.
func newWaitClient(ops *scriptedOperations, clk *fakeClock, opts ...Option) (*Client, *fakeTransport) {
	tr := &fakeTransport{handle: ops.handle}
	c := newTestClient(tr, opts...)
	if clk != nil {
		c.now = clk.now
		c.sleep = clk.sleep
	}
	return c, tr
}
