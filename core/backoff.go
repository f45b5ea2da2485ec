package core

import (
	"math"
	"time"
)

// Default polling backoff settings.
const (
	DefaultInitialDelay = time.Second
	DefaultMaxDelay     = 10 * time.Second
	DefaultMultiplier   = 2.0
)

// BackoffPolicy maps a poll attempt to the delay before the next status check.
// A policy is a configuration value: it is never mutated after construction
// and can be shared by any number of concurrent waits.
type BackoffPolicy struct {
	InitialDelay time.Duration // Delay after the first poll (default: 1s)
	MaxDelay     time.Duration // Upper bound for any delay (default: 10s)
	Multiplier   float64       // Growth factor per attempt (default: 2.0)
}

// DefaultBackoffPolicy returns the 1s / 10s / x2 policy.
func DefaultBackoffPolicy() *BackoffPolicy {
	return &BackoffPolicy{
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultMultiplier,
	}
}

// NewBackoffPolicy creates a policy, replacing non-positive values with the
// defaults. MaxDelay is raised to InitialDelay if it is smaller.
func NewBackoffPolicy(initial, max time.Duration, multiplier float64) *BackoffPolicy {
	if initial <= 0 {
		initial = DefaultInitialDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}
	if max < initial {
		max = initial
	}
	if multiplier <= 0 || math.IsNaN(multiplier) {
		multiplier = DefaultMultiplier
	}
	return &BackoffPolicy{InitialDelay: initial, MaxDelay: max, Multiplier: multiplier}
}

// DelayForAttempt returns the delay to wait after poll number attempt.
// Attempt 0 yields InitialDelay; later attempts yield
// round(InitialDelay * Multiplier^attempt) capped at MaxDelay.
// The result is defined for every attempt; large exponents saturate at MaxDelay.
func (p *BackoffPolicy) DelayForAttempt(attempt int) time.Duration {
	if attempt <= 0 {
		return p.InitialDelay
	}

	delay := math.Round(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt)))
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay >= float64(p.MaxDelay) {
		return p.MaxDelay
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}
