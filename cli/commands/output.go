package commands

import (
	"encoding/json"
	"fmt"

	"github.com/petal-labs/yvision/core"
)

// resultJSON is the JSON shape of one recognition result.
type resultJSON struct {
	OperationID string         `json:"operation_id,omitempty"`
	Text        string         `json:"text"`
	Payload     map[string]any `json:"payload"`
	Meta        core.Meta      `json:"meta"`
}

func newResultJSON(operationID string, resp *core.OcrResponse) resultJSON {
	return resultJSON{
		OperationID: operationID,
		Text:        resp.FullText(),
		Payload:     resp.Payload,
		Meta:        resp.Meta,
	}
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (a *App) printResult(operationID string, resp *core.OcrResponse) error {
	if a.jsonOutput {
		return a.writeJSON(newResultJSON(operationID, resp))
	}
	fmt.Fprintln(a.stdout, resp.FullText())
	return nil
}

func (a *App) printResults(ids []string, results []*core.OcrResponse) error {
	if a.jsonOutput {
		out := make([]resultJSON, len(results))
		for i, resp := range results {
			out[i] = newResultJSON(ids[i], resp)
		}
		return a.writeJSON(out)
	}

	for i, resp := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(a.stdout)
			}
			fmt.Fprintf(a.stdout, "== %s ==\n", ids[i])
		}
		fmt.Fprintln(a.stdout, resp.FullText())
	}
	return nil
}
