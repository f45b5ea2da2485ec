package core

import "strings"

// PayloadFormatNDJSON marks a payload assembled from newline-delimited JSON
// objects. The objects are stored in order under the "pages" key.
const PayloadFormatNDJSON = "ndjson"

// Meta carries transport-level facts about the response a value was built from.
type Meta struct {
	StatusCode    int    `json:"status_code"`
	RequestID     string `json:"request_id,omitempty"`
	PayloadFormat string `json:"payload_format,omitempty"`
}

// OperationHandle identifies a server-side recognition job.
// It is returned by a successful start call and never changes afterwards.
type OperationHandle struct {
	OperationID string `json:"operation_id"`
	RequestID   string `json:"request_id,omitempty"`
}

// OperationStatus is a single snapshot of an operation, produced by one poll.
type OperationStatus struct {
	OperationID string         `json:"operation_id"`
	Done        bool           `json:"done"`
	Payload     map[string]any `json:"payload"`
	Meta        Meta           `json:"meta"`
}

// Response returns the inline recognition result of a finished operation.
// ok is false when the payload has no object-shaped "response" field.
func (s *OperationStatus) Response() (map[string]any, bool) {
	resp, ok := s.Payload["response"].(map[string]any)
	return resp, ok
}

// Failure returns the message of an object-shaped "error" field.
// The message falls back to DefaultOperationFailureMessage when the error
// object carries no non-empty string message. ok is false when no error is
// reported.
func (s *OperationStatus) Failure() (message string, ok bool) {
	errObj, isObj := s.Payload["error"].(map[string]any)
	if !isObj {
		return "", false
	}
	if msg, _ := errObj["message"].(string); msg != "" {
		return msg, true
	}
	return DefaultOperationFailureMessage, true
}

// OcrResponse is the recognition result of a completed operation or a
// synchronous recognize call.
type OcrResponse struct {
	Payload map[string]any `json:"payload"`
	Meta    Meta           `json:"meta"`
}

// FullText returns the recognized text.
// For single-object payloads it reads textAnnotation.fullText, directly or
// under "result". For NDJSON payloads the per-page texts are joined with
// newlines.
func (r *OcrResponse) FullText() string {
	if r == nil {
		return ""
	}
	if text, ok := pageText(r.Payload); ok {
		return text
	}

	pages, _ := r.Payload["pages"].([]any)
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		page, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := pageText(page); ok {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

func pageText(m map[string]any) (string, bool) {
	if text, ok := annotationText(m); ok {
		return text, true
	}
	if result, ok := m["result"].(map[string]any); ok {
		return annotationText(result)
	}
	return "", false
}

func annotationText(m map[string]any) (string, bool) {
	ann, ok := m["textAnnotation"].(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := ann["fullText"].(string)
	return text, ok
}
