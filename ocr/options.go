package ocr

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/yvision/core"
	"github.com/petal-labs/yvision/transport"
)

// Service endpoints.
const (
	DefaultOCRBaseURL       = "https://ocr.api.cloud.yandex.net/ocr/v1"
	DefaultOperationBaseURL = "https://operation.api.cloud.yandex.net/operations"
)

// DefaultWaitTimeout is the wait timeout used by the CLI when none is configured.
const DefaultWaitTimeout = 60 * time.Second

// Config holds configuration for the OCR client.
type Config struct {
	// OCRBaseURL is the recognition API base URL. Defaults to DefaultOCRBaseURL.
	OCRBaseURL string

	// OperationBaseURL is the operation API base URL. Defaults to DefaultOperationBaseURL.
	OperationBaseURL string

	// Transport performs the HTTP round trips. Defaults to a transport.HTTP
	// wrapping HTTPClient.
	Transport core.Transport

	// HTTPClient is used when Transport is nil. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Middleware wraps the transport; the first entry is outermost.
	Middleware []transport.Middleware

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout bounds every single request. Zero means no per-request timeout.
	Timeout time.Duration

	// Telemetry receives request and poll events. Defaults to a no-op hook.
	Telemetry core.TelemetryHook

	// Backoff is used by Wait and WaitMany when the caller passes nil.
	Backoff *core.BackoffPolicy

	// Runner is used by WaitMany when the caller passes nil.
	// Defaults to core.SequentialRunner.
	Runner core.Runner

	// RequestIDGenerator, when set, produces an x-request-id for requests
	// whose options carry none.
	RequestIDGenerator func() string
}

// Option configures the OCR client.
type Option func(*Config)

// WithOCRBaseURL sets the recognition API base URL.
func WithOCRBaseURL(url string) Option {
	return func(c *Config) {
		c.OCRBaseURL = url
	}
}

// WithOperationBaseURL sets the operation API base URL.
func WithOperationBaseURL(url string) Option {
	return func(c *Config) {
		c.OperationBaseURL = url
	}
}

// WithTransport sets a custom transport.
func WithTransport(t core.Transport) Option {
	return func(c *Config) {
		c.Transport = t
	}
}

// WithHTTPClient sets a custom HTTP client for the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithMiddleware appends transport middleware, e.g. transport.NewRateLimit.
func WithMiddleware(mws ...transport.Middleware) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, mws...)
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *Config) {
		if h != nil {
			c.Telemetry = h
		}
	}
}

// WithBackoff sets the default polling backoff.
func WithBackoff(p *core.BackoffPolicy) Option {
	return func(c *Config) {
		if p != nil {
			c.Backoff = p
		}
	}
}

// WithRunner sets the default fan-out strategy for WaitMany.
func WithRunner(r core.Runner) Option {
	return func(c *Config) {
		if r != nil {
			c.Runner = r
		}
	}
}

// WithRequestIDGenerator sets the generator for missing request ids.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Config) {
		c.RequestIDGenerator = gen
	}
}

// WithGeneratedRequestIDs tags every request lacking a request id with a
// random UUID, which makes server-side support lookups possible.
func WithGeneratedRequestIDs() Option {
	return WithRequestIDGenerator(uuid.NewString)
}
