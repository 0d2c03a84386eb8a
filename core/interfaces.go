// Package core defines the shared types and stage interfaces for rostercard.
// Each stage of the roster-to-vCard pipeline is a small, testable unit;
// the types here are the only things that cross stage boundaries.
package core

import "strings"

// Node is a labeled tree node with text content. It is the only view of a
// parsed HTML document the roster stages see.
type Node interface {
	// Tag returns the lowercase element name.
	Tag() string
	// Text returns the text of all descendants. Line breaks and block
	// boundaries are rendered as a single space.
	Text() string
	Attr(name string) (string, bool)
	// Children returns the element children only.
	Children() []Node
	// FindAll returns the descendants with the given tag, in document order.
	FindAll(tag string) []Node
}

// RawRow is the ordered cell text of one roster data row.
type RawRow struct {
	Index int      // 1-based position among the table's data rows
	Cells []string // whitespace-normalized cell text
	Photo string   // src of the row's student photo, as written in the page
}

// Name is a structured personal name.
type Name struct {
	Family string `json:"family"`
	Given  string `json:"given"`
	Middle string `json:"middle,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// Formatted returns the display form, e.g. "Jane A. Doe Jr.".
func (n Name) Formatted() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{n.Prefix, n.Given, n.Middle, n.Family, n.Suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Phone is a normalized phone number. Uncertain is set when the digit count
// did not allow canonical formatting and Number holds digits only.
type Phone struct {
	Number    string `json:"number"`
	Uncertain bool   `json:"uncertain,omitempty"`
}

// Photo is a student picture. Ref is the reference found in the roster;
// Data and Type are filled in once a PhotoSource has resolved it.
type Photo struct {
	Ref  string `json:"ref"`
	Type string `json:"type,omitempty"` // vCard image type, e.g. JPEG
	Data []byte `json:"-"`
}

// PhotoSource resolves the photo references found in roster rows.
type PhotoSource interface {
	Photo(ref string) (Photo, error)
}

// ContactRecord is the canonical contact for one student.
type ContactRecord struct {
	Name        Name     `json:"name"`
	ID          string   `json:"id"`
	OrgContext  string   `json:"org_context,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Title       string   `json:"title,omitempty"`
	Emails      []string `json:"emails"`
	Phones      []Phone  `json:"phones"`
	Program     string   `json:"program,omitempty"`
	Plan        string   `json:"plan,omitempty"`
	Level       string   `json:"level,omitempty"`
	Status      string   `json:"status,omitempty"`
	Photo       Photo    `json:"photo,omitzero"`
}

// RunContext holds the values applied identically to every record of a run.
type RunContext struct {
	OrgContext  string
	Institution string
	Title       string
}

// Course describes the class section a roster was generated for, as far as
// the page header reveals it.
type Course struct {
	Code        string `json:"code,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Term        string `json:"term,omitempty"`
	Session     string `json:"session,omitempty"`
	Institution string `json:"institution,omitempty"`
	Level       string `json:"level,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	Room        string `json:"room,omitempty"`
	Dates       string `json:"dates,omitempty"`
}

// Label returns "Code, Term", or whichever half is known.
func (c Course) Label() string {
	switch {
	case c.Code != "" && c.Term != "":
		return c.Code + ", " + c.Term
	case c.Code != "":
		return c.Code
	default:
		return c.Term
	}
}

// Diagnostic reports a skipped or downgraded row. Row is 0 for notes about
// the document as a whole.
type Diagnostic struct {
	Row     int       `json:"row"`
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// Result is the outcome of one conversion run.
type Result struct {
	Course      Course          `json:"course"`
	Header      []string        `json:"header"`
	Records     []ContactRecord `json:"records"`
	Diagnostics []Diagnostic    `json:"diagnostics"`
	Converted   int             `json:"converted"`
	Skipped     int             `json:"skipped"`
}

// Renderer converts a conversion result into a final output format.
type Renderer interface {
	Render(res *Result) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".vcf", ".csv").
	Extension() string
}
