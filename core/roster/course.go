package roster

import (
	"strings"

	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/normalize"
)

// courseFields maps the portal's course header element ids to Course fields.
var courseFields = map[string]func(*core.Course, string){
	"DERIVED_SSR_FC_SSR_CLASSNAME_LONG": func(c *core.Course, v string) { c.Code = v },
	"DERIVED_SSR_FC_SSS_PAGE_KEYDESCR2": func(c *core.Course, v string) { c.Description = v },
	"DERIVED_SSR_FC_DESCR254":           func(c *core.Course, v string) { c.Name = v },
	"MTG_INSTR$0":                       func(c *core.Course, v string) { c.Instructor = v },
	"MTG_SCHED$0":                       func(c *core.Course, v string) { c.Schedule = v },
	"MTG_LOC$0":                         func(c *core.Course, v string) { c.Room = v },
	"MTG_DATE$0":                        func(c *core.Course, v string) { c.Dates = v },
}

// DetectCourse reads the course header elements of a roster page. Fields
// that are absent stay empty; a page without a course header returns the
// zero Course.
func DetectCourse(root core.Node) core.Course {
	var c core.Course
	seen := make(map[string]bool)
	for _, n := range root.FindAll("*") {
		id, ok := n.Attr("id")
		if !ok || seen[id] {
			continue
		}
		set, ok := courseFields[id]
		if !ok {
			continue
		}
		seen[id] = true
		set(&c, normalize.Whitespace(n.Text()))
	}
	unpackDescription(&c)
	return c
}

// unpackDescription splits "Spring 2017 | Regular Academic Session |
// New York University | Undergraduate" into its parts.
func unpackDescription(c *core.Course) {
	if c.Description == "" {
		return
	}
	parts := strings.Split(c.Description, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	fields := []*string{&c.Term, &c.Session, &c.Institution, &c.Level}
	for i := 0; i < len(parts) && i < len(fields); i++ {
		*fields[i] = parts[i]
	}
}
