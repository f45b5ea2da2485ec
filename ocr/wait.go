package ocr

import (
	"context"
	"time"

	"github.com/petal-labs/yvision/core"
)

// Wait polls an operation until it finishes, fails or the timeout elapses.
//
// The first status check happens immediately, so a zero timeout performs
// exactly one check. Between checks the client sleeps according to backoff,
// never past the deadline. A nil backoff uses the client default.
//
// Wait returns:
//   - the recognition result when the operation is done, taken from the inline
//     "response" field or fetched with one GetRecognition call;
//   - an *core.APIError when the status carries an "error" object, even when
//     the operation is not done or the deadline has passed;
//   - a *core.TimeoutError when the deadline passes while the operation runs.
func (c *Client) Wait(ctx context.Context, operationID string, timeout time.Duration, backoff *core.BackoffPolicy) (*core.OcrResponse, error) {
	id, err := normalizeOperationID(operationID)
	if err != nil {
		return nil, err
	}
	if backoff == nil {
		backoff = c.config.Backoff
	}
	if timeout < 0 {
		timeout = 0
	}

	deadline := c.now().Add(timeout)

	for attempt := 0; ; attempt++ {
		status, err := c.GetOperation(ctx, id)
		if err != nil {
			c.emitPoll(id, attempt, false, 0, err)
			return nil, err
		}

		if message, failed := status.Failure(); failed {
			err := newOperationError(id, message, status.Meta)
			c.emitPoll(id, attempt, status.Done, 0, err)
			return nil, err
		}

		if status.Done {
			c.emitPoll(id, attempt, true, 0, nil)
			if resp, ok := status.Response(); ok {
				return &core.OcrResponse{Payload: resp, Meta: status.Meta}, nil
			}
			return c.GetRecognition(ctx, id)
		}

		remaining := deadline.Sub(c.now())
		if remaining <= 0 {
			err := &core.TimeoutError{OperationID: id, Timeout: timeout, Attempts: attempt + 1}
			c.emitPoll(id, attempt, false, 0, err)
			return nil, err
		}

		delay := min(backoff.DelayForAttempt(attempt), remaining)
		c.emitPoll(id, attempt, false, delay, nil)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// WaitMany waits for every operation in ids and returns the results in input
// order. The runner decides the scheduling; a nil runner uses the client
// default. The first failure aborts the batch.
func (c *Client) WaitMany(ctx context.Context, ids []string, timeout time.Duration, backoff *core.BackoffPolicy, runner core.Runner) ([]*core.OcrResponse, error) {
	if runner == nil {
		runner = c.config.Runner
	}

	tasks := make([]core.Task, len(ids))
	for i, id := range ids {
		tasks[i] = func(ctx context.Context) (*core.OcrResponse, error) {
			return c.Wait(ctx, id, timeout, backoff)
		}
	}

	return runner.Run(ctx, tasks)
}

func (c *Client) emitPoll(id string, attempt int, done bool, delay time.Duration, err error) {
	c.telemetry.OnPoll(core.PollEvent{
		OperationID: id,
		Attempt:     attempt,
		Done:        done,
		Delay:       delay,
		Err:         err,
	})
}
