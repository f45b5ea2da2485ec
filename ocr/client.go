package ocr

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/petal-labs/yvision/core"
	"github.com/petal-labs/yvision/transport"
)

// Client talks to the recognition and operation APIs.
// Client is safe for concurrent use as long as its transport and credential
// provider are.
type Client struct {
	config      Config
	credentials core.CredentialProvider
	transport   core.Transport
	telemetry   core.TelemetryHook

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a client that authenticates every request with credentials.
func New(credentials core.CredentialProvider, opts ...Option) *Client {
	cfg := Config{
		OCRBaseURL:       DefaultOCRBaseURL,
		OperationBaseURL: DefaultOperationBaseURL,
		HTTPClient:       http.DefaultClient,
		Telemetry:        core.NoopTelemetryHook{},
		Backoff:          core.DefaultBackoffPolicy(),
		Runner:           core.SequentialRunner{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.OCRBaseURL = strings.TrimRight(cfg.OCRBaseURL, "/")
	cfg.OperationBaseURL = strings.TrimRight(cfg.OperationBaseURL, "/")

	tr := cfg.Transport
	if tr == nil {
		tr = transport.NewHTTP(cfg.HTTPClient)
	}
	if len(cfg.Middleware) > 0 {
		tr = transport.Chain(cfg.Middleware...)(tr)
	}

	return &Client{
		config:      cfg,
		credentials: credentials,
		transport:   tr,
		telemetry:   cfg.Telemetry,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// send performs one round trip for req and decodes the response.
func (c *Client) send(ctx context.Context, req *request) (map[string]any, core.Meta, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(core.RequestStartEvent{
		Operation:   req.operation,
		OperationID: req.operationID,
		Start:       start,
	})

	payload, meta, err := c.roundTrip(ctx, req)

	c.telemetry.OnRequestEnd(core.RequestEndEvent{
		Operation:   req.operation,
		OperationID: req.operationID,
		Start:       start,
		End:         time.Now(),
		StatusCode:  meta.StatusCode,
		RequestID:   meta.RequestID,
		Err:         err,
	})

	return payload, meta, err
}

func (c *Client) roundTrip(ctx context.Context, req *request) (map[string]any, core.Meta, error) {
	body, err := encodeBody(req.body)
	if err != nil {
		return nil, core.Meta{}, err
	}

	sendCtx := ctx
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := c.transport.Send(sendCtx, &core.Request{
		Method: req.method,
		URL:    req.url,
		Header: req.header,
		Body:   body,
	})
	if err != nil {
		// Caller cancellation is reported as is; an expired per-request
		// timeout is a transport failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, core.Meta{}, ctxErr
		}
		return nil, core.Meta{}, newHTTPError(err)
	}

	return parseResponse(resp)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
