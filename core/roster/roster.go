// Package roster locates the student table in a parsed roster page and
// yields its data rows.
//
// A table is recognized by its header row: header cells are normalized and
// looked up in a synonym table, and the first table whose header names a
// majority of the expected columns (and both required ones) is the roster.
package roster

import (
	"iter"
	"slices"
	"strings"

	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/normalize"
)

// Roster is a matched roster table.
type Roster struct {
	// Header holds the normalized header cell text.
	Header []string
	// Positions maps logical columns to cell indexes.
	Positions Positions

	rows     []core.Node
	consumed bool
}

// Parse finds the first table in root matching the roster signature.
// A nil cols uses DefaultColumns. When no table matches, the error is a
// *core.Error of kind core.KindNoRosterFound.
func Parse(root core.Node, cols Columns) (*Roster, error) {
	if cols == nil {
		cols = DefaultColumns()
	}
	idx := cols.index()

	for _, table := range root.FindAll("table") {
		rows := tableRows(table)
		for i, tr := range rows {
			cells := cellNodes(tr)
			if len(cells) == 0 {
				continue
			}
			header := cellText(cells)
			pos := match(idx, header)
			if !satisfied(pos) {
				continue
			}
			return &Roster{
				Header:    header,
				Positions: pos,
				rows:      rows[i+1:],
			}, nil
		}
	}
	return nil, &core.Error{Op: "roster.Parse", Kind: core.KindNoRosterFound, Err: core.ErrNoRosterFound}
}

// Rows returns the data rows in table order. The sequence is lazy and
// single-pass: cell text is extracted as rows are pulled, and a second call
// yields nothing.
//
// Rows without any td cell (spacers, repeated th header rows) are not data
// rows and are skipped silently, as are td rows repeating the header text.
func (r *Roster) Rows() iter.Seq[core.RawRow] {
	return func(yield func(core.RawRow) bool) {
		if r.consumed {
			return
		}
		r.consumed = true

		index := 0
		for _, tr := range r.rows {
			cells := cellNodes(tr)
			if !hasTag(cells, "td") {
				continue
			}
			text := cellText(cells)
			if slices.Equal(text, r.Header) {
				continue
			}
			index++
			row := core.RawRow{Index: index, Cells: text, Photo: r.photo(tr, cells)}
			if !yield(row) {
				return
			}
		}
	}
}

// PhotoIDPrefix starts the id of the element wrapping a student's picture
// in portal roster rows.
const PhotoIDPrefix = "win10divEMPL_PHOTO_EMPLOYEE_PHOTO"

// photo returns the src of the row's picture: the img inside the portal's
// photo element, else the first img of the photo column. "" when neither
// exists.
func (r *Roster) photo(tr core.Node, cells []core.Node) string {
	for _, n := range tr.FindAll("*") {
		if id, ok := n.Attr("id"); ok && strings.HasPrefix(id, PhotoIDPrefix) {
			if src := imgSource(n); src != "" {
				return src
			}
		}
	}
	if i, ok := r.Positions[ColPhoto]; ok && i < len(cells) {
		return imgSource(cells[i])
	}
	return ""
}

func imgSource(n core.Node) string {
	for _, img := range n.FindAll("img") {
		if src, ok := img.Attr("src"); ok {
			if src = strings.TrimSpace(src); src != "" {
				return src
			}
		}
	}
	return ""
}

// tableRows returns the rows that belong to table itself, not to tables
// nested inside its cells.
func tableRows(table core.Node) []core.Node {
	var rows []core.Node
	for _, child := range table.Children() {
		switch child.Tag() {
		case "tr":
			rows = append(rows, child)
		case "thead", "tbody", "tfoot":
			for _, tr := range child.Children() {
				if tr.Tag() == "tr" {
					rows = append(rows, tr)
				}
			}
		}
	}
	return rows
}

func cellNodes(tr core.Node) []core.Node {
	var cells []core.Node
	for _, c := range tr.Children() {
		if t := c.Tag(); t == "td" || t == "th" {
			cells = append(cells, c)
		}
	}
	return cells
}

func cellText(cells []core.Node) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = normalize.Whitespace(c.Text())
	}
	return out
}

func hasTag(nodes []core.Node, tag string) bool {
	for _, n := range nodes {
		if n.Tag() == tag {
			return true
		}
	}
	return false
}
