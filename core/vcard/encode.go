// Package vcard serializes contact records as vCard 3.0 (RFC 2426) text.
//
// Escaping and line folding live here and nowhere else. The package knows
// core.ContactRecord but nothing about rosters or HTML, so other output
// formats can be added beside it without touching the mapping stages.
package vcard

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gaurav-prasanna/rostercard/core"
)

// maxLineOctets is the longest content line allowed before folding,
// excluding the CRLF.
const maxLineOctets = 75

const crlf = "\r\n"

// uidNamespace seeds the name-based UIDs so the same student always gets
// the same UID.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gaurav-prasanna/rostercard"))

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// Escape escapes backslashes, commas, semicolons and newlines in a text
// value.
func Escape(s string) string {
	return escaper.Replace(s)
}

// UID returns the stable UID for a student of an institution.
func UID(institution, id string) string {
	return "urn:uuid:" + uuid.NewSHA1(uidNamespace, []byte(institution+"\x00"+id)).String()
}

// Marshal renders rec as one BEGIN:VCARD … END:VCARD block. The output
// depends only on rec, so marshaling the same record twice gives identical
// bytes.
func Marshal(rec core.ContactRecord) []byte {
	var b bytes.Buffer
	write := func(name, value string) {
		b.WriteString(fold(name + ":" + value))
		b.WriteString(crlf)
	}

	write("BEGIN", "VCARD")
	write("VERSION", "3.0")
	write("PRODID", "-//rostercard//EN")
	write("UID", UID(rec.Institution, rec.ID))

	fn := rec.Name.Formatted()
	if fn == "" {
		fn = rec.ID
	}
	write("FN", Escape(fn))
	write("N", structured(rec.Name.Family, rec.Name.Given, rec.Name.Middle, rec.Name.Prefix, rec.Name.Suffix))

	for _, e := range rec.Emails {
		write("EMAIL;TYPE=INTERNET", Escape(e))
	}
	for _, p := range rec.Phones {
		if p.Uncertain {
			write("TEL;TYPE=VOICE;X-FORMAT=UNKNOWN", Escape(p.Number))
		} else {
			write("TEL;TYPE=VOICE", Escape(p.Number))
		}
	}

	if rec.Title != "" {
		write("TITLE", Escape(rec.Title))
	}
	if rec.Institution != "" || rec.Program != "" {
		org := []string{rec.Institution}
		if rec.Program != "" {
			org = append(org, rec.Program)
		}
		write("ORG", structured(org...))
	}
	write("X-STUDENT-ID", Escape(rec.ID))
	if pp := progPlan(rec.Program, rec.Plan); pp != "" {
		write("X-PROGPLAN", Escape(pp))
	}
	if len(rec.Photo.Data) > 0 {
		typ := rec.Photo.Type
		if typ == "" {
			typ = "JPEG"
		}
		write("PHOTO;ENCODING=b;TYPE="+typ, base64.StdEncoding.EncodeToString(rec.Photo.Data))
	}
	if rec.OrgContext != "" {
		write("item1.X-ABLABEL", "course")
		write("item1.X-ABRELATEDNAMES", Escape(rec.OrgContext))
	}
	write("END", "VCARD")
	return b.Bytes()
}

// Encode writes the vCard block for rec to w.
func Encode(w io.Writer, rec core.ContactRecord) error {
	_, err := w.Write(Marshal(rec))
	return err
}

// structured escapes each component and joins them with raw semicolons.
func structured(components ...string) string {
	escaped := make([]string, len(components))
	for i, c := range components {
		escaped[i] = Escape(c)
	}
	return strings.Join(escaped, ";")
}

func progPlan(program, plan string) string {
	switch {
	case program != "" && plan != "":
		return program + " - " + plan
	case program != "":
		return program
	default:
		return plan
	}
}

// fold splits a content line longer than maxLineOctets into CRLF + space
// continuation lines. A break never lands inside a UTF-8 sequence or
// between a backslash and the character it escapes.
func fold(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}
	var b strings.Builder
	b.Grow(len(line) + len(line)/maxLineOctets*3)
	width := 0
	for i := 0; i < len(line); {
		n := unitLen(line, i)
		if width+n > maxLineOctets {
			b.WriteString(crlf + " ")
			width = 1
		}
		b.WriteString(line[i : i+n])
		width += n
		i += n
	}
	return b.String()
}

// unitLen is the length of the unbreakable unit starting at line[i]: an
// escape pair or one UTF-8 encoded rune. Escaped lines only contain
// backslashes as the first half of a pair.
func unitLen(line string, i int) int {
	if line[i] == '\\' && i+1 < len(line) {
		return 2
	}
	_, size := utf8.DecodeRuneInString(line[i:])
	return size
}

// Renderer implements core.Renderer, writing one vCard per record in
// record order.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render concatenates the vCard blocks of all records.
func (r *Renderer) Render(res *core.Result) ([]byte, error) {
	var b bytes.Buffer
	for _, rec := range res.Records {
		if err := Encode(&b, rec); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

// Extension returns the file extension for vCard output.
func (r *Renderer) Extension() string {
	return ".vcf"
}
