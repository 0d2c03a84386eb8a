package roster

import (
	"fmt"
	"slices"

	"github.com/gaurav-prasanna/rostercard/core/normalize"
)

// Column is a logical roster column.
type Column string

const (
	ColName    Column = "name"
	ColID      Column = "id"
	ColEmail   Column = "email"
	ColPhone   Column = "phone"
	ColProgram Column = "program"
	ColLevel   Column = "level"
	ColStatus  Column = "status"
	ColPhoto   Column = "photo"
)

// Expected are the columns a roster header is scored against. A table is a
// roster when a strict majority of them is present.
var Expected = []Column{ColName, ColID, ColEmail, ColPhone}

// Required must be among the matched columns; no row could map without them.
var Required = []Column{ColName, ColID}

// AllColumns lists every logical column in a stable order.
var AllColumns = []Column{ColName, ColID, ColEmail, ColPhone, ColProgram, ColLevel, ColStatus, ColPhoto}

// Columns maps each logical column to its accepted header labels.
type Columns map[Column][]string

// DefaultColumns returns the built-in header synonym table.
func DefaultColumns() Columns {
	return Columns{
		ColName: {
			"name", "student name", "student", "full name",
			"name last first", "last first", "preferred name",
		},
		ColID: {
			"id", "student id", "campus id", "emplid", "empl id",
			"id number", "student number", "university id", "n number",
		},
		ColEmail: {
			"email", "e mail", "email address", "e mail address",
			"preferred email", "university email", "school email",
		},
		ColPhone: {
			"phone", "phone number", "telephone", "preferred phone",
			"mobile", "cell phone",
		},
		ColProgram: {"program and plan", "program plan", "program", "plan", "major"},
		ColLevel:   {"level", "class level", "academic level", "year"},
		ColStatus:  {"status", "enrollment status", "enrl status"},
		ColPhoto:   {"photo", "id photo", "student photo", "picture"},
	}
}

// Merge returns a copy of c where every column present in override replaces
// the built-in synonyms.
func (c Columns) Merge(override Columns) Columns {
	out := make(Columns, len(c))
	for col, syn := range c {
		out[col] = slices.Clone(syn)
	}
	for col, syn := range override {
		if len(syn) > 0 {
			out[col] = slices.Clone(syn)
		}
	}
	return out
}

// Validate rejects unknown columns and labels claimed by two columns.
func (c Columns) Validate() error {
	owner := make(map[string]Column)
	for col, syn := range c {
		if !slices.Contains(AllColumns, col) {
			return fmt.Errorf("unknown column %q", col)
		}
		for _, s := range syn {
			key := normalize.Header(s)
			if key == "" {
				return fmt.Errorf("column %q: empty header label", col)
			}
			if prev, ok := owner[key]; ok && prev != col {
				return fmt.Errorf("header label %q claimed by both %q and %q", s, prev, col)
			}
			owner[key] = col
		}
	}
	return nil
}

// index maps normalized header text to its column.
func (c Columns) index() map[string]Column {
	idx := make(map[string]Column)
	for _, col := range AllColumns {
		for _, s := range c[col] {
			if key := normalize.Header(s); key != "" {
				if _, taken := idx[key]; !taken {
					idx[key] = col
				}
			}
		}
	}
	return idx
}

// Positions maps a logical column to its cell index in the roster's rows.
// It is established once from the header row and reused for every row.
type Positions map[Column]int

// Cell returns the cell of row for col, or "" when the column is absent.
func (p Positions) Cell(cells []string, col Column) string {
	i, ok := p[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// Has reports whether col was found in the header.
func (p Positions) Has(col Column) bool {
	_, ok := p[col]
	return ok
}

// match maps header cells onto columns. The first cell claiming a column
// wins.
func match(idx map[string]Column, header []string) Positions {
	pos := make(Positions)
	for i, h := range header {
		col, ok := idx[normalize.Header(h)]
		if !ok {
			continue
		}
		if _, taken := pos[col]; !taken {
			pos[col] = i
		}
	}
	return pos
}

// satisfied reports whether pos meets the roster signature.
func satisfied(pos Positions) bool {
	for _, col := range Required {
		if !pos.Has(col) {
			return false
		}
	}
	found := 0
	for _, col := range Expected {
		if pos.Has(col) {
			found++
		}
	}
	return found*2 > len(Expected)
}
