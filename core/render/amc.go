// Package render provides the non-vCard output renderers for rostercard.
// This file implements the AMC renderer, a CSV student list in the layout
// auto-multiple-choice imports.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/rostercard/core"
)

var amcHeader = []string{"Campus ID", "surname", "name", "NetID", "email", "id"}

// AMCRenderer writes one CSV row per record.
type AMCRenderer struct{}

// NewAMCRenderer creates an AMCRenderer.
func NewAMCRenderer() *AMCRenderer {
	return &AMCRenderer{}
}

// Render writes the header and one row per record, in record order.
func (r *AMCRenderer) Render(res *core.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(amcHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range res.Records {
		if err := w.Write(amcRow(rec)); err != nil {
			return nil, fmt.Errorf("writing CSV row for %s: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for CSV output.
func (r *AMCRenderer) Extension() string {
	return ".csv"
}

func amcRow(rec core.ContactRecord) []string {
	var email, netID string
	if len(rec.Emails) > 0 {
		email = rec.Emails[0]
		netID, _, _ = strings.Cut(email, "@")
	}
	given := strings.TrimSpace(rec.Name.Given + " " + rec.Name.Middle)
	return []string{
		rec.ID,
		rec.Name.Family,
		given,
		netID,
		email,
		strings.TrimLeftFunc(rec.ID, func(r rune) bool { return !unicode.IsDigit(r) }),
	}
}
