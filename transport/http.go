// Package transport provides the default net/http implementation of
// core.Transport and middleware that wraps any transport with rate limiting
// or a circuit breaker.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/petal-labs/yvision/core"
)

// HTTP sends requests through an *http.Client.
// HTTP is safe for concurrent use.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates a transport backed by client. A nil client means
// http.DefaultClient.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{client: client}
}

// Send performs one round trip and reads the whole response body.
func (t *HTTP) Send(ctx context.Context, req *core.Request) (*core.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &core.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Compile-time check that HTTP implements core.Transport.
var _ core.Transport = (*HTTP)(nil)
