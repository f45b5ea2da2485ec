// Package config handles CLI configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/yaml.v3"

	"github.com/petal-labs/yvision/core"
	"github.com/petal-labs/yvision/ocr"
	"github.com/petal-labs/yvision/transport"
)

// Authentication schemes.
const (
	AuthAPIKey   = "api_key"
	AuthIAMToken = "iam_token"
)

// DefaultKeyRef is the keystore entry holding the credential when
// api_key_ref is not set.
const DefaultKeyRef = "yandex-vision"

// Config represents the CLI configuration.
type Config struct {
	FolderID         string        `yaml:"folder_id"`
	Auth             string        `yaml:"auth,omitempty"`
	APIKeyRef        string        `yaml:"api_key_ref,omitempty"`
	OCRBaseURL       string        `yaml:"ocr_base_url,omitempty"`
	OperationBaseURL string        `yaml:"operation_base_url,omitempty"`
	Languages        []string      `yaml:"languages,omitempty"`
	Model            string        `yaml:"model,omitempty"`
	Timeout          string        `yaml:"timeout,omitempty"`
	Concurrency      int           `yaml:"concurrency,omitempty"`
	Backoff          BackoffConfig `yaml:"backoff,omitempty"`
	RateLimit        float64       `yaml:"rate_limit,omitempty"`
	CircuitBreaker   BreakerConfig `yaml:"circuit_breaker,omitempty"`
}

// BreakerConfig enables the transport circuit breaker. Failures is the
// number of consecutive failed requests that opens it; zero disables it.
type BreakerConfig struct {
	Failures int    `yaml:"failures,omitempty"`
	Cooldown string `yaml:"cooldown,omitempty"`
}

// BackoffConfig overrides the polling schedule. Durations use
// time.ParseDuration syntax ("500ms", "2s").
type BackoffConfig struct {
	InitialDelay string  `yaml:"initial_delay,omitempty"`
	MaxDelay     string  `yaml:"max_delay,omitempty"`
	Multiplier   float64 `yaml:"multiplier,omitempty"`
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.yvision/config.yaml
// - Windows: %USERPROFILE%\.yvision\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".yvision", "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// AuthScheme returns the configured scheme, api_key when unset.
func (c *Config) AuthScheme() (string, error) {
	switch strings.TrimSpace(c.Auth) {
	case "", AuthAPIKey:
		return AuthAPIKey, nil
	case AuthIAMToken:
		return AuthIAMToken, nil
	default:
		return "", fmt.Errorf("unknown auth %q (want %s or %s)", c.Auth, AuthAPIKey, AuthIAMToken)
	}
}

// KeyRef returns the keystore entry name of the credential.
func (c *Config) KeyRef() string {
	if ref := strings.TrimSpace(c.APIKeyRef); ref != "" {
		return ref
	}
	return DefaultKeyRef
}

// WaitTimeout returns the configured wait timeout or ocr.DefaultWaitTimeout.
func (c *Config) WaitTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return ocr.DefaultWaitTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	return d, nil
}

// BackoffPolicy builds the polling schedule, filling unset fields with the
// library defaults.
func (c *Config) BackoffPolicy() (*core.BackoffPolicy, error) {
	initial, err := parseOptionalDuration("backoff.initial_delay", c.Backoff.InitialDelay)
	if err != nil {
		return nil, err
	}
	maxDelay, err := parseOptionalDuration("backoff.max_delay", c.Backoff.MaxDelay)
	if err != nil {
		return nil, err
	}
	return core.NewBackoffPolicy(initial, maxDelay, c.Backoff.Multiplier), nil
}

// Middleware returns the transport middleware enabled by rate_limit and
// circuit_breaker, rate limiting first.
func (c *Config) Middleware() ([]transport.Middleware, error) {
	var mws []transport.Middleware

	if c.RateLimit < 0 {
		return nil, fmt.Errorf("rate_limit must not be negative")
	}
	if c.RateLimit > 0 {
		mws = append(mws, transport.NewRateLimit(c.RateLimit, 1))
	}

	if c.CircuitBreaker.Failures < 0 {
		return nil, fmt.Errorf("circuit_breaker.failures must not be negative")
	}
	if c.CircuitBreaker.Failures > 0 {
		cooldown, err := parseOptionalDuration("circuit_breaker.cooldown", c.CircuitBreaker.Cooldown)
		if err != nil {
			return nil, err
		}
		failures := uint32(c.CircuitBreaker.Failures)
		mws = append(mws, transport.WithCircuitBreaker(gobreaker.Settings{
			Name:    "yvision",
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
		}))
	}

	return mws, nil
}

// Options builds recognition options from the configured folder, languages
// and model.
func (c *Config) Options() (core.Options, error) {
	opts := core.NewOptions()

	if folder := strings.TrimSpace(c.FolderID); folder != "" {
		opts = opts.WithFolderID(folder)
	}

	if len(c.Languages) > 0 {
		codes := make([]core.LanguageCode, 0, len(c.Languages))
		for _, lang := range c.Languages {
			code, err := core.ParseLanguageCode(lang)
			if err != nil {
				return core.Options{}, err
			}
			codes = append(codes, code)
		}
		opts = opts.WithLanguageCodes(codes...)
	}

	if c.Model != "" {
		model, err := core.ParseModel(c.Model)
		if err != nil {
			return core.Options{}, err
		}
		opts = opts.WithModel(model)
	}

	return opts, nil
}

func parseOptionalDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}
