package ocr

import (
	"context"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/petal-labs/yvision/core"
)

// RecognizeText recognizes content synchronously.
func (c *Client) RecognizeText(ctx context.Context, content []byte, mime string, opts core.Options) (*core.OcrResponse, error) {
	req, err := c.recognizeRequest(core.OpRecognizeText, recognizeTextPath, content, mime, opts)
	if err != nil {
		return nil, err
	}

	payload, meta, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return &core.OcrResponse{Payload: payload, Meta: meta}, nil
}

// RecognizeTextFromFile reads path and recognizes its content synchronously.
// The MIME type comes from opts or is detected from the file.
func (c *Client) RecognizeTextFromFile(ctx context.Context, path string, opts core.Options) (*core.OcrResponse, error) {
	content, mime, err := readFilePayload(path, opts)
	if err != nil {
		return nil, err
	}
	return c.RecognizeText(ctx, content, mime, opts)
}

func readFilePayload(path string, opts core.Options) ([]byte, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", core.NewValidationError("Unable to read file %q: %v", path, err)
	}
	if len(content) == 0 {
		return nil, "", core.NewValidationError("File %q is empty.", path)
	}

	if mime := strings.TrimSpace(opts.MimeType()); mime != "" {
		return content, mime, nil
	}

	// Parameters such as "; charset=utf-8" are not accepted by the API.
	detected := mimetype.Detect(content).String()
	mime, _, _ := strings.Cut(detected, ";")
	mime = strings.TrimSpace(mime)
	if mime == "" || mime == "application/octet-stream" {
		return nil, "", core.NewValidationError("Unable to detect MIME type of %q; set it explicitly.", path)
	}
	return content, mime, nil
}
