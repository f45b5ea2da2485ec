package ocr

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/petal-labs/yvision/core"
)

func TestWaitInlineResponse(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{`{"id":"op-1","done":true,"response":{"textAnnotation":{"fullText":"inline"}}}`}
	clk := newFakeClock()
	c, tr := newWaitClient(ops, clk)

	resp, err := c.Wait(context.Background(), "op-1", time.Minute, nil)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if resp.FullText() != "inline" {
		t.Errorf("FullText() = %q", resp.FullText())
	}
	if resp.Meta.StatusCode != http.StatusOK {
		t.Errorf("Meta = %+v, want the status meta", resp.Meta)
	}
	if n := tr.calls(); n != 1 {
		t.Errorf("transport calls = %d, want 1", n)
	}
	if s := clk.slept(); len(s) != 0 {
		t.Errorf("slept %v, want no sleep", s)
	}
}

func TestWaitFetchesResultOnce(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{`{"done":false}`, `{"done":true}`}
	ops.results["op-1"] = `{"textAnnotation":{"fullText":"fetched"}}`
	clk := newFakeClock()
	c, tr := newWaitClient(ops, clk)

	resp, err := c.Wait(context.Background(), "op-1", time.Minute, nil)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if resp.FullText() != "fetched" {
		t.Errorf("FullText() = %q", resp.FullText())
	}
	if ops.fetchCount("op-1") != 1 || ops.pollCount("op-1") != 2 || tr.calls() != 3 {
		t.Errorf("polls=%d fetches=%d calls=%d, want 2/1/3", ops.pollCount("op-1"), ops.fetchCount("op-1"), tr.calls())
	}
}

func TestWaitNonObjectResponseIsFetched(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{`{"done":true,"response":"not an object"}`}
	ops.results["op-1"] = `{"textAnnotation":{"fullText":"fetched"}}`
	c, _ := newWaitClient(ops, newFakeClock())

	if _, err := c.Wait(context.Background(), "op-1", time.Minute, nil); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if ops.fetchCount("op-1") != 1 {
		t.Errorf("fetches = %d, want 1", ops.fetchCount("op-1"))
	}
}

func TestWaitZeroTimeoutPollsOnce(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		ops := newScriptedOperations()
		ops.statuses["op-1"] = []string{`{"done":false}`}
		clk := newFakeClock()
		c, tr := newWaitClient(ops, clk)

		_, err := c.Wait(context.Background(), "op-1", timeout, nil)

		var timeoutErr *core.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("Wait(timeout=%v) error = %v, want *core.TimeoutError", timeout, err)
		}
		if timeoutErr.OperationID != "op-1" || timeoutErr.Attempts != 1 || timeoutErr.Timeout != 0 {
			t.Errorf("timeoutErr = %+v", timeoutErr)
		}
		if tr.calls() != 1 || len(clk.slept()) != 0 {
			t.Errorf("calls=%d sleeps=%v, want one poll and no sleep", tr.calls(), clk.slept())
		}
	}
}

func TestWaitOperationError(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		timeout time.Duration
		want    string
	}{
		{"error while running", `{"done":false,"error":{"code":13,"message":"internal"}}`, time.Minute, "internal"},
		{"error when done", `{"done":true,"error":{"message":"bad image"},"response":{"x":1}}`, time.Minute, "bad image"},
		{"error without message", `{"done":true,"error":{"code":3}}`, time.Minute, core.DefaultOperationFailureMessage},
		{"error beats timeout", `{"done":false,"error":{"message":"late"}}`, 0, "late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := newScriptedOperations()
			ops.statuses["op-1"] = []string{tt.status}
			clk := newFakeClock()
			c, tr := newWaitClient(ops, clk)

			_, err := c.Wait(context.Background(), "op-1", tt.timeout, nil)

			var apiErr *core.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *core.APIError", err)
			}
			if errors.Is(err, core.ErrTimeout) {
				t.Error("operation error matched ErrTimeout")
			}
			if apiErr.Message != tt.want || apiErr.OperationID != "op-1" {
				t.Errorf("apiErr = %+v, want message %q", apiErr, tt.want)
			}
			if tr.calls() != 1 || len(clk.slept()) != 0 {
				t.Errorf("calls=%d sleeps=%v, want one poll and no sleep", tr.calls(), clk.slept())
			}
		})
	}
}

func TestWaitBackoffSchedule(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{
		`{"done":false}`, `{"done":false}`, `{"done":false}`,
		`{"done":true,"response":{"ok":true}}`,
	}
	clk := newFakeClock()
	c, _ := newWaitClient(ops, clk)

	if _, err := c.Wait(context.Background(), "op-1", time.Minute, nil); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if got := clk.slept(); !reflect.DeepEqual(got, want) {
		t.Errorf("sleeps = %v, want %v", got, want)
	}
}

func TestWaitSleepNeverPassesDeadline(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{`{"done":false}`}
	clk := newFakeClock()
	c, tr := newWaitClient(ops, clk)

	_, err := c.Wait(context.Background(), "op-1", 1500*time.Millisecond, nil)

	var timeoutErr *core.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error = %v, want *core.TimeoutError", err)
	}
	want := []time.Duration{time.Second, 500 * time.Millisecond}
	if got := clk.slept(); !reflect.DeepEqual(got, want) {
		t.Errorf("sleeps = %v, want %v", got, want)
	}
	if tr.calls() != 3 || timeoutErr.Attempts != 3 {
		t.Errorf("calls=%d attempts=%d, want 3/3", tr.calls(), timeoutErr.Attempts)
	}
}

func TestWaitUsesGivenOrDefaultBackoff(t *testing.T) {
	script := []string{`{"done":false}`, `{"done":true,"response":{}}`}

	ops := newScriptedOperations()
	ops.statuses["op-1"] = script
	clk := newFakeClock()
	c, _ := newWaitClient(ops, clk, WithBackoff(core.NewBackoffPolicy(5*time.Millisecond, time.Second, 2)))
	if _, err := c.Wait(context.Background(), "op-1", time.Minute, nil); err != nil {
		t.Fatal(err)
	}
	if got := clk.slept(); len(got) != 1 || got[0] != 5*time.Millisecond {
		t.Errorf("default backoff sleeps = %v, want [5ms]", got)
	}

	ops = newScriptedOperations()
	ops.statuses["op-1"] = script
	clk = newFakeClock()
	c, _ = newWaitClient(ops, clk)
	custom := core.NewBackoffPolicy(250*time.Millisecond, time.Second, 2)
	if _, err := c.Wait(context.Background(), "op-1", time.Minute, custom); err != nil {
		t.Fatal(err)
	}
	if got := clk.slept(); len(got) != 1 || got[0] != 250*time.Millisecond {
		t.Errorf("explicit backoff sleeps = %v, want [250ms]", got)
	}
}

func TestWaitRequestErrorAborts(t *testing.T) {
	tr := &fakeTransport{handle: func(context.Context, *core.Request) (*core.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `unavailable`), nil
	}}
	c := newTestClient(tr)
	clk := newFakeClock()
	c.now, c.sleep = clk.now, clk.sleep

	_, err := c.Wait(context.Background(), "op-1", time.Minute, nil)
	if !errors.Is(err, core.ErrAPI) {
		t.Fatalf("error = %v, want ErrAPI", err)
	}
	if tr.calls() != 1 {
		t.Errorf("calls = %d, want 1", tr.calls())
	}
}

func TestWaitCancelledDuringSleep(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{`{"done":false}`}
	c, _ := newWaitClient(ops, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Wait(ctx, "op-1", time.Hour, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWaitPollEvents(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["op-1"] = []string{`{"done":false}`, `{"done":true,"response":{}}`}
	hook := &recordingHook{}
	c, _ := newWaitClient(ops, newFakeClock(), WithTelemetry(hook))

	if _, err := c.Wait(context.Background(), "op-1", time.Minute, nil); err != nil {
		t.Fatal(err)
	}

	want := []core.PollEvent{
		{OperationID: "op-1", Attempt: 0, Delay: time.Second},
		{OperationID: "op-1", Attempt: 1, Done: true},
	}
	if !reflect.DeepEqual(hook.polls, want) {
		t.Errorf("polls = %+v, want %+v", hook.polls, want)
	}
}

func TestWaitManyPreservesOrder(t *testing.T) {
	runners := map[string]core.Runner{
		"sequential": core.SequentialRunner{},
		"concurrent": core.ConcurrentRunner{Limit: 2},
	}

	for name, runner := range runners {
		t.Run(name, func(t *testing.T) {
			ops := newScriptedOperations()
			ops.statuses["a"] = []string{`{"done":true,"response":{"textAnnotation":{"fullText":"A"}}}`}
			ops.statuses["b"] = []string{`{"done":false}`, `{"done":true,"response":{"textAnnotation":{"fullText":"B"}}}`}
			c, _ := newWaitClient(ops, newFakeClock())

			got, err := c.WaitMany(context.Background(), []string{"a", "b"}, time.Minute, nil, runner)
			if err != nil {
				t.Fatalf("WaitMany() error = %v", err)
			}
			if len(got) != 2 || got[0].FullText() != "A" || got[1].FullText() != "B" {
				t.Fatalf("results = %v", got)
			}
			if ops.pollCount("a") != 1 || ops.pollCount("b") != 2 {
				t.Errorf("polls a=%d b=%d, want 1/2", ops.pollCount("a"), ops.pollCount("b"))
			}
		})
	}
}

func TestWaitManyDefaultRunner(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["a"] = []string{`{"done":true,"response":{}}`}
	ops.statuses["b"] = []string{`{"done":true,"response":{}}`}
	c, _ := newWaitClient(ops, newFakeClock(), WithRunner(core.ConcurrentRunner{}))

	got, err := c.WaitMany(context.Background(), []string{"a", "b"}, time.Minute, nil, nil)
	if err != nil || len(got) != 2 {
		t.Fatalf("WaitMany() = %v, %v", got, err)
	}
}

func TestWaitManyFailFast(t *testing.T) {
	ops := newScriptedOperations()
	ops.statuses["a"] = []string{`{"done":true,"response":{}}`}
	ops.statuses["b"] = []string{`{"done":true,"error":{"message":"rejected"}}`}
	ops.statuses["c"] = []string{`{"done":true,"response":{}}`}
	c, _ := newWaitClient(ops, newFakeClock())

	got, err := c.WaitMany(context.Background(), []string{"a", "b", "c"}, time.Minute, nil, core.SequentialRunner{})
	if !errors.Is(err, core.ErrAPI) {
		t.Fatalf("error = %v, want ErrAPI", err)
	}
	if got != nil {
		t.Errorf("results = %v, want nil", got)
	}
	if ops.pollCount("c") != 0 {
		t.Errorf("c polled %d times after the batch failed", ops.pollCount("c"))
	}
}

func TestWaitManyEmpty(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(tr)

	got, err := c.WaitMany(context.Background(), nil, time.Minute, nil, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("WaitMany(nil) = %v, %v", got, err)
	}
	if tr.calls() != 0 {
		t.Errorf("calls = %d, want 0", tr.calls())
	}
}
