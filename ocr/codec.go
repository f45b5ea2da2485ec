package ocr

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/petal-labs/yvision/core"
)

// Endpoint paths.
const (
	recognizeTextPath      = "/recognizeText"
	recognizeTextAsyncPath = "/recognizeTextAsync"
	getRecognitionPath     = "/getRecognition"
)

// request is an outbound call before JSON encoding.
type request struct {
	operation   string
	operationID string
	method      string
	url         string
	header      http.Header
	body        map[string]any
}

// recognizeRequest builds a synchronous or asynchronous recognize call.
func (c *Client) recognizeRequest(operation, path string, content []byte, mime string, opts core.Options) (*request, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	payload, err := buildRecognizePayload(content, mime, opts)
	if err != nil {
		return nil, err
	}

	return &request{
		operation: operation,
		method:    http.MethodPost,
		url:       c.config.OCRBaseURL + path,
		header:    c.buildHeaders(opts, true),
		body:      payload,
	}, nil
}

// operationRequest builds the status call for an already validated id.
func (c *Client) operationRequest(operationID string) *request {
	return &request{
		operation:   core.OpGetOperation,
		operationID: operationID,
		method:      http.MethodGet,
		url:         c.config.OperationBaseURL + "/" + url.PathEscape(operationID),
		header:      c.buildHeaders(core.NewOptions(), false),
	}
}

// recognitionRequest builds the result fetch for an already validated id.
func (c *Client) recognitionRequest(operationID string) *request {
	query := url.Values{"operationId": {operationID}}
	return &request{
		operation:   core.OpGetRecognition,
		operationID: operationID,
		method:      http.MethodGet,
		url:         c.config.OCRBaseURL + getRecognitionPath + "?" + query.Encode(),
		header:      c.buildHeaders(core.NewOptions(), false),
	}
}

// buildHeaders constructs the HTTP headers for an API request.
func (c *Client) buildHeaders(opts core.Options, withContentType bool) http.Header {
	headers := make(http.Header)

	// Copy any extra headers first so the required ones win.
	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	headers.Set("Authorization", c.credentials.AuthorizationHeader())
	if withContentType {
		headers.Set("Content-Type", "application/json")
	}
	if folderID := opts.FolderID(); folderID != "" {
		headers.Set("x-folder-id", folderID)
	}

	requestID := opts.RequestID()
	if requestID == "" && c.config.RequestIDGenerator != nil {
		requestID = c.config.RequestIDGenerator()
	}
	if requestID != "" {
		headers.Set("x-request-id", requestID)
	}

	return headers
}

func buildRecognizePayload(content []byte, mime string, opts core.Options) (map[string]any, error) {
	if len(content) == 0 {
		return nil, core.NewValidationError("content must not be empty.")
	}
	mime = strings.TrimSpace(mime)
	if mime == "" {
		return nil, core.NewValidationError("mimeType must be a non-empty string.")
	}

	payload := map[string]any{
		"content":  base64.StdEncoding.EncodeToString(content),
		"mimeType": mime,
	}

	if codes := opts.LanguageCodes(); len(codes) > 0 {
		langs := make([]string, len(codes))
		for i, code := range codes {
			langs[i] = string(code)
		}
		payload["languageCodes"] = langs
	}
	if model := opts.Model(); model != "" {
		payload["model"] = string(model)
	}

	return payload, nil
}

// encodeBody marshals a request body. A nil body yields nil bytes.
func encodeBody(body map[string]any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, core.NewValidationError("Unable to encode request payload to JSON: %v", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// parseResponse classifies the HTTP status and decodes the body.
func parseResponse(resp *core.Response) (map[string]any, core.Meta, error) {
	meta := core.Meta{StatusCode: resp.StatusCode}
	if resp.Header != nil {
		meta.RequestID = resp.Header.Get("x-request-id")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, meta, newAPIError(resp.StatusCode, resp.Body, meta.RequestID)
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return map[string]any{}, meta, nil
	}

	payload, format, err := decodePayload(resp.Body)
	if err != nil {
		return nil, meta, err
	}
	meta.PayloadFormat = format
	return payload, meta, nil
}

// decodePayload decodes a single JSON object, or falls back to NDJSON when the
// body is not valid JSON. NDJSON objects are collected under "pages".
func decodePayload(body []byte) (map[string]any, string, error) {
	var data any
	err := json.Unmarshal(body, &data)
	if err == nil {
		obj, ok := data.(map[string]any)
		if !ok {
			return nil, "", core.NewValidationError("Unexpected JSON response payload.")
		}
		return obj, "", nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, "", newDecodeError(err)
	}

	pages, ok, ndErr := decodeNDJSON(body)
	if ndErr != nil {
		return nil, "", ndErr
	}
	if !ok {
		return nil, "", newDecodeError(err)
	}
	return map[string]any{"pages": pages}, core.PayloadFormatNDJSON, nil
}

// decodeNDJSON parses one JSON object per non-blank line.
// ok is false when some line is not valid JSON or no line holds any data.
func decodeNDJSON(body []byte) (pages []any, ok bool, err error) {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var v any
		if json.Unmarshal([]byte(line), &v) != nil {
			return nil, false, nil
		}
		obj, isObj := v.(map[string]any)
		if !isObj {
			return nil, false, core.NewValidationError("Unexpected NDJSON payload on line %d.", i+1)
		}
		pages = append(pages, obj)
	}

	if len(pages) == 0 {
		return nil, false, nil
	}
	return pages, true, nil
}
