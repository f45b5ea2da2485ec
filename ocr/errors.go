package ocr

import (
	"fmt"
	"strings"

	"github.com/petal-labs/yvision/core"
)

// maxSnippetLength bounds the response body quoted in API errors.
const maxSnippetLength = 1000

// newAPIError converts a non-2xx response into an APIError carrying a body snippet.
func newAPIError(status int, body []byte, requestID string) error {
	message := fmt.Sprintf("API request failed with status %d", status)
	if snippet := truncateBody(body, maxSnippetLength); snippet != "" {
		message += ": " + snippet
	}
	return &core.APIError{
		Status:    status,
		RequestID: requestID,
		Message:   message,
	}
}

// newOperationError reports a business-level failure of an operation.
func newOperationError(operationID, message string, meta core.Meta) error {
	return &core.APIError{
		Status:      meta.StatusCode,
		RequestID:   meta.RequestID,
		OperationID: operationID,
		Message:     message,
	}
}

// newHTTPError wraps a transport failure.
func newHTTPError(err error) error {
	return &core.HTTPError{Message: "HTTP transport error", Err: err}
}

// newDecodeError reports a response body that is neither JSON nor NDJSON.
func newDecodeError(err error) error {
	return core.NewValidationError("Unable to decode JSON response: %v", err)
}

func truncateBody(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
