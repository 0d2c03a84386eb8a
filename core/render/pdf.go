// PDF renderer.
// Lays out an A4 class list with gofpdf: a course heading followed by a
// ruled table of name, ID, e-mail and phone. Core fonts are used, so text
// is translated to cp1252 first.

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/rostercard/core"
)

// column widths in mm; they sum to the A4 text width with 15mm margins.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Name", 60},
	{"ID", 30},
	{"Email", 60},
	{"Phone", 30},
}

// PDFRenderer renders a class list as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out the result as PDF bytes.
func (r *PDFRenderer) Render(res *core.Result) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := res.Course.Label()
	if title == "" {
		title = "Class list"
	}
	pdf.SetTitle(title, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, c.title, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range courseLines(res.Course) {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, fmt.Sprintf("%d students, %d rows skipped", res.Converted, res.Skipped), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
	drawHeader()

	// Later pages repeat the column header only.
	pdf.SetHeaderFunc(drawHeader)

	for i, rec := range res.Records {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		cells := []string{displayName(rec), rec.ID, first(rec.Emails), firstPhone(rec.Phones)}
		for j, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, fit(pdf, tr(cells[j]), c.width), "", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func courseLines(c core.Course) []string {
	var lines []string
	if c.Name != "" {
		lines = append(lines, c.Name)
	}
	if c.Institution != "" {
		lines = append(lines, c.Institution)
	}
	if c.Instructor != "" {
		lines = append(lines, "Instructor: "+c.Instructor)
	}
	if meets := strings.TrimSpace(c.Schedule + " " + c.Room); meets != "" {
		lines = append(lines, "Meets: "+meets)
	}
	return lines
}

// fit truncates s with an ellipsis so it stays inside a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

func firstPhone(ps []core.Phone) string {
	if len(ps) == 0 {
		return ""
	}
	return ps[0].Number
}
