// Markdown renderer.
// The class list is built as an HTML fragment and converted with
// html-to-markdown, so escaping of names and addresses is left to the
// converter.

package render

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/rostercard/core"
)

// MarkdownRenderer writes a readable class list.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the result into Markdown.
func (r *MarkdownRenderer) Render(res *core.Result) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(classListHTML(res))
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return []byte(markdown + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func classListHTML(res *core.Result) string {
	var b strings.Builder
	esc := html.EscapeString

	title := res.Course.Label()
	if title == "" {
		title = "Class list"
	}
	fmt.Fprintf(&b, "<h1>%s</h1>", esc(title))

	var facts []string
	for _, f := range []struct{ label, value string }{
		{"Course", res.Course.Name},
		{"Institution", res.Course.Institution},
		{"Instructor", res.Course.Instructor},
		{"Meets", res.Course.Schedule},
		{"Room", res.Course.Room},
	} {
		if f.value != "" {
			facts = append(facts, fmt.Sprintf("<strong>%s:</strong> %s", f.label, esc(f.value)))
		}
	}
	if len(facts) > 0 {
		fmt.Fprintf(&b, "<p>%s</p>", strings.Join(facts, "<br>"))
	}

	fmt.Fprintf(&b, "<h2>Students (%d)</h2><ul>", len(res.Records))
	for _, rec := range res.Records {
		b.WriteString("<li>")
		fmt.Fprintf(&b, "<strong>%s</strong> (%s)", esc(displayName(rec)), esc(rec.ID))
		for _, e := range rec.Emails {
			fmt.Fprintf(&b, ` <a href="mailto:%s">%s</a>`, esc(e), esc(e))
		}
		for _, p := range rec.Phones {
			fmt.Fprintf(&b, " %s", esc(p.Number))
		}
		if pp := programPlan(rec); pp != "" {
			fmt.Fprintf(&b, " <em>%s</em>", esc(pp))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")

	if len(res.Diagnostics) > 0 {
		b.WriteString("<h2>Notes</h2><ul>")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&b, "<li>Row %d: %s</li>", d.Row, esc(d.Message))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

func displayName(rec core.ContactRecord) string {
	if name := rec.Name.Formatted(); name != "" {
		return name
	}
	return rec.ID
}

func programPlan(rec core.ContactRecord) string {
	switch {
	case rec.Program != "" && rec.Plan != "":
		return rec.Program + " / " + rec.Plan
	default:
		return rec.Program + rec.Plan
	}
}
