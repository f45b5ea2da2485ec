package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petal-labs/yvision/core"
)

// Exit codes for different error types.
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
	ExitTimeout    = 4
)

// errConfiguration marks problems with the config file, flags or credentials.
var errConfiguration = errors.New("configuration error")

func configError(err error) error {
	return fmt.Errorf("%w: %w", errConfiguration, err)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns the process exit code for the error.
func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// classify maps an error to its exit code and JSON error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errConfiguration), errors.Is(err, core.ErrValidation):
		return ExitValidation, "validation_error"
	case errors.Is(err, core.ErrTimeout):
		return ExitTimeout, "timeout_error"
	case errors.Is(err, core.ErrHTTP):
		return ExitNetwork, "network_error"
	case errors.Is(err, core.ErrAPI):
		return ExitAPI, "api_error"
	default:
		return ExitNetwork, "error"
	}
}

// handleError reports err on stderr and converts it into an exitError.
func (a *App) handleError(err error) error {
	if err == nil {
		return nil
	}
	var already *exitError
	if errors.As(err, &already) {
		return err
	}

	code, kind := classify(err)

	if a.jsonOutput {
		body := map[string]any{"type": kind, "message": err.Error()}

		var apiErr *core.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status != 0 {
				body["status"] = apiErr.Status
			}
			if apiErr.RequestID != "" {
				body["request_id"] = apiErr.RequestID
			}
			if apiErr.OperationID != "" {
				body["operation_id"] = apiErr.OperationID
			}
		}
		var timeoutErr *core.TimeoutError
		if errors.As(err, &timeoutErr) {
			body["operation_id"] = timeoutErr.OperationID
		}

		enc := json.NewEncoder(a.stderr)
		_ = enc.Encode(map[string]any{"error": body})
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}

	return exitWithCode(code, err)
}
