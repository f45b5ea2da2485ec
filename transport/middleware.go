package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/petal-labs/yvision/core"
)

// Middleware wraps a Transport to add behavior around every round trip.
type Middleware func(next core.Transport) core.Transport

// Chain combines multiple middleware into a single middleware.
// Middleware are executed in the order provided (first middleware is outermost).
func Chain(middlewares ...Middleware) Middleware {
	return func(next core.Transport) core.Transport {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// WithRateLimit delays requests so that limiter is never exceeded.
// A cancelled context aborts the wait with the context error.
func WithRateLimit(limiter *rate.Limiter) Middleware {
	return func(next core.Transport) core.Transport {
		return core.TransportFunc(func(ctx context.Context, req *core.Request) (*core.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				return nil, fmt.Errorf("rate limit: %w", err)
			}
			return next.Send(ctx, req)
		})
	}
}

// NewRateLimit allows perSecond requests per second with the given burst.
func NewRateLimit(perSecond float64, burst int) Middleware {
	if burst < 1 {
		burst = 1
	}
	return WithRateLimit(rate.NewLimiter(rate.Limit(perSecond), burst))
}

// ErrCircuitOpen is returned while the circuit breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// serverError marks a 5xx response as a breaker failure.
type serverError struct {
	resp *core.Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: status %d", e.resp.StatusCode)
}

// WithCircuitBreaker stops sending requests after repeated failures.
// Transport errors and 5xx responses count as failures; 5xx responses are
// still returned to the caller unchanged. Caller cancellation does not count.
func WithCircuitBreaker(settings gobreaker.Settings) Middleware {
	userIsSuccessful := settings.IsSuccessful
	settings.IsSuccessful = func(err error) bool {
		if err == nil || errors.Is(err, context.Canceled) {
			return true
		}
		if userIsSuccessful != nil {
			return userIsSuccessful(err)
		}
		return false
	}
	cb := gobreaker.NewCircuitBreaker(settings)

	return func(next core.Transport) core.Transport {
		return core.TransportFunc(func(ctx context.Context, req *core.Request) (*core.Response, error) {
			out, err := cb.Execute(func() (any, error) {
				resp, err := next.Send(ctx, req)
				if err != nil {
					return nil, err
				}
				if resp.StatusCode >= http.StatusInternalServerError {
					return nil, &serverError{resp: resp}
				}
				return resp, nil
			})

			var srvErr *serverError
			switch {
			case err == nil:
				return out.(*core.Response), nil
			case errors.As(err, &srvErr):
				return srvErr.resp, nil
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
			default:
				return nil, err
			}
		})
	}
}
