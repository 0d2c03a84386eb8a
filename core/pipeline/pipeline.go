// Package pipeline runs one roster conversion end to end:
// locate roster → map rows → collect records and diagnostics.
//
// Rendering is left to the caller so the same Result can feed any
// core.Renderer.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/mapper"
	"github.com/gaurav-prasanna/rostercard/core/roster"
)

// Options configure a conversion run.
type Options struct {
	// Columns is the header synonym table; nil uses roster.DefaultColumns.
	Columns roster.Columns
	// Context is applied to every record. An empty OrgContext falls back to
	// the course label detected on the page, and an empty Institution to
	// the detected institution.
	Context core.RunContext
	// Photos resolves the picture found in a row. Nil leaves records with
	// only the reference.
	Photos core.PhotoSource
}

// Convert parses the roster in root and maps every data row in order.
// Only a missing roster is an error; rejected rows and field warnings are
// reported in Result.Diagnostics.
func Convert(root core.Node, opts Options) (*core.Result, error) {
	r, err := roster.Parse(root, opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("locating roster: %w", err)
	}

	course := roster.DetectCourse(root)
	ctx := opts.Context
	if ctx.OrgContext == "" {
		ctx.OrgContext = course.Label()
	}
	if ctx.Institution == "" {
		ctx.Institution = course.Institution
	}

	res := &core.Result{
		Course:      course,
		Header:      r.Header,
		Records:     []core.ContactRecord{},
		Diagnostics: []core.Diagnostic{},
	}
	m := mapper.New(r.Positions, len(r.Header), ctx)

	for row := range r.Rows() {
		rec, warnings, err := m.Map(row)
		if err != nil {
			res.Skipped++
			res.Diagnostics = append(res.Diagnostics, rowDiagnostic(row.Index, err))
			continue
		}
		if w := attachPhoto(&rec, opts.Photos); !w.IsZero() {
			warnings = append(warnings, w)
		}
		for _, w := range warnings {
			res.Diagnostics = append(res.Diagnostics, w.Diagnostic(row.Index))
		}
		res.Records = append(res.Records, rec)
		res.Converted++
	}
	return res, nil
}

// attachPhoto fills in rec.Photo from src. A picture that cannot be read
// costs the record its photo, not the record itself.
func attachPhoto(rec *core.ContactRecord, src core.PhotoSource) core.FieldWarning {
	ref := rec.Photo.Ref
	if ref == "" || src == nil {
		return core.FieldWarning{}
	}
	p, err := src.Photo(ref)
	if err != nil {
		return core.FieldWarning{Kind: core.KindMissingPhoto, Field: "photo", Msg: err.Error()}
	}
	p.Ref = ref
	rec.Photo = p
	return core.FieldWarning{}
}

func rowDiagnostic(row int, err error) core.Diagnostic {
	var re *core.RowError
	if errors.As(err, &re) {
		return re.Diagnostic()
	}
	return core.Diagnostic{Row: row, Message: err.Error()}
}
