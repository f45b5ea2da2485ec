package ocr

import (
	"context"
	"strings"

	"github.com/petal-labs/yvision/core"
)

// GetOperation fetches the current status of an operation.
// A payload without a boolean "done" field is reported as not done.
func (c *Client) GetOperation(ctx context.Context, operationID string) (*core.OperationStatus, error) {
	id, err := normalizeOperationID(operationID)
	if err != nil {
		return nil, err
	}

	payload, meta, err := c.send(ctx, c.operationRequest(id))
	if err != nil {
		return nil, err
	}

	done, _ := payload["done"].(bool)
	return &core.OperationStatus{
		OperationID: id,
		Done:        done,
		Payload:     payload,
		Meta:        meta,
	}, nil
}

// GetRecognition fetches the recognition result of a finished operation.
func (c *Client) GetRecognition(ctx context.Context, operationID string) (*core.OcrResponse, error) {
	id, err := normalizeOperationID(operationID)
	if err != nil {
		return nil, err
	}

	payload, meta, err := c.send(ctx, c.recognitionRequest(id))
	if err != nil {
		return nil, err
	}
	return &core.OcrResponse{Payload: payload, Meta: meta}, nil
}

// StartTextRecognition submits content for asynchronous recognition and
// returns a handle to the created operation.
func (c *Client) StartTextRecognition(ctx context.Context, content []byte, mime string, opts core.Options) (*core.OperationHandle, error) {
	req, err := c.recognizeRequest(core.OpStartTextRecognition, recognizeTextAsyncPath, content, mime, opts)
	if err != nil {
		return nil, err
	}

	payload, meta, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	id, _ := payload["id"].(string)
	if strings.TrimSpace(id) == "" {
		return nil, core.NewValidationError("Missing operation id in async recognition response.")
	}

	return &core.OperationHandle{OperationID: id, RequestID: meta.RequestID}, nil
}

// StartTextRecognitionFromFile reads path and starts asynchronous recognition
// of its content. The MIME type comes from opts or is detected from the file.
func (c *Client) StartTextRecognitionFromFile(ctx context.Context, path string, opts core.Options) (*core.OperationHandle, error) {
	content, mime, err := readFilePayload(path, opts)
	if err != nil {
		return nil, err
	}
	return c.StartTextRecognition(ctx, content, mime, opts)
}

func normalizeOperationID(operationID string) (string, error) {
	id := strings.TrimSpace(operationID)
	if id == "" {
		return "", core.NewValidationError("Operation id must be a non-empty string.")
	}
	return id, nil
}
