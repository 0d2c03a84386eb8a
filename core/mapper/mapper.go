// Package mapper turns roster rows into canonical contact records.
package mapper

import (
	"fmt"

	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/normalize"
	"github.com/gaurav-prasanna/rostercard/core/roster"
)

// Mapper maps rows by the column positions fixed from one roster header.
// It remembers the identifiers it has emitted so a duplicate ID within a
// run is rejected; use one Mapper per run.
type Mapper struct {
	positions roster.Positions
	arity     int
	ctx       core.RunContext
	seen      map[string]int
}

// New creates a Mapper for rows of the given arity (the header's cell
// count).
func New(positions roster.Positions, arity int, ctx core.RunContext) *Mapper {
	return &Mapper{
		positions: positions,
		arity:     arity,
		ctx:       ctx,
		seen:      make(map[string]int),
	}
}

// Map converts one row. A returned error is always a *core.RowError; the
// warnings describe fields that were dropped or downgraded in a record that
// is still valid.
func (m *Mapper) Map(row core.RawRow) (core.ContactRecord, []core.FieldWarning, error) {
	if len(row.Cells) != m.arity {
		return core.ContactRecord{}, nil, &core.RowError{
			Row:  row.Index,
			Kind: core.KindColumnCountMismatch,
			Msg:  fmt.Sprintf("row has %d cells, header has %d", len(row.Cells), m.arity),
		}
	}

	cell := func(col roster.Column) string {
		return normalize.Whitespace(m.positions.Cell(row.Cells, col))
	}

	id := cell(roster.ColID)
	if id == "" {
		return core.ContactRecord{}, nil, missing(row.Index, "id")
	}
	rawName := cell(roster.ColName)
	if rawName == "" {
		return core.ContactRecord{}, nil, missing(row.Index, "name")
	}

	var warnings []core.FieldWarning
	name, w := normalize.SplitName(rawName)
	if name.Family == "" {
		return core.ContactRecord{}, nil, missing(row.Index, "name")
	}
	if !w.IsZero() {
		warnings = append(warnings, w)
	}

	if first, dup := m.seen[id]; dup {
		return core.ContactRecord{}, nil, &core.RowError{
			Row:   row.Index,
			Kind:  core.KindDuplicateIdentifier,
			Field: "id",
			Msg:   fmt.Sprintf("id %q already used by row %d", id, first),
		}
	}

	emails, ws := normalize.Emails(cell(roster.ColEmail))
	warnings = append(warnings, ws...)

	var phones []core.Phone
	phone, w := normalize.Phone(cell(roster.ColPhone))
	if !w.IsZero() {
		warnings = append(warnings, w)
	}
	if phone.Number != "" {
		phones = append(phones, phone)
	}

	program, plan := normalize.ProgramPlan(cell(roster.ColProgram))

	m.seen[id] = row.Index
	return core.ContactRecord{
		Name:        name,
		ID:          id,
		OrgContext:  m.ctx.OrgContext,
		Institution: m.ctx.Institution,
		Title:       m.ctx.Title,
		Emails:      emails,
		Phones:      phones,
		Program:     program,
		Plan:        plan,
		Level:       cell(roster.ColLevel),
		Status:      cell(roster.ColStatus),
		Photo:       core.Photo{Ref: row.Photo},
	}, warnings, nil
}

func missing(row int, field string) *core.RowError {
	return &core.RowError{
		Row:   row,
		Kind:  core.KindMissingRequiredField,
		Field: field,
		Msg:   field + " is blank",
	}
}
