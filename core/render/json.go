// JSON renderer.
// Emits the whole conversion result: course, records, diagnostics and
// counts. Empty lists are written as [] rather than null.

package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/rostercard/core"
)

// JSONRenderer produces structured JSON output from a conversion result.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals res as indented JSON.
func (r *JSONRenderer) Render(res *core.Result) ([]byte, error) {
	out := *res
	if out.Header == nil {
		out.Header = []string{}
	}
	if out.Records == nil {
		out.Records = []core.ContactRecord{}
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []core.Diagnostic{}
	}
	records := make([]core.ContactRecord, len(out.Records))
	for i, rec := range out.Records {
		if rec.Emails == nil {
			rec.Emails = []string{}
		}
		if rec.Phones == nil {
			rec.Phones = []core.Phone{}
		}
		records[i] = rec
	}
	out.Records = records

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
