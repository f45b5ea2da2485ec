package core

import (
	"context"
	"net/http"
)

// Request is an outbound HTTP request built by the client.
// Body holds encoded JSON, or is nil for requests without a body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw result of a round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs exactly one HTTP round trip per Send call.
// A returned error means no response was obtained (the client reports it as
// HTTPError); non-2xx responses are not errors at this level.
// Transports used with a concurrent Runner must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
