package vcard

import (
	"bytes"
	"encoding/base64"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/rostercard/core"
)

func janeDoe() core.ContactRecord {
	return core.ContactRecord{
		Name:        core.Name{Family: "Doe", Given: "Jane", Middle: "A."},
		ID:          "S00123",
		OrgContext:  "MATH-UA 123, Spring 2017",
		Institution: "New York University",
		Title:       "Student",
		Emails:      []string{"jane.doe@example.edu"},
		Phones:      []core.Phone{{Number: "(555) 123-4567"}},
	}
}

func TestMarshal_Golden(t *testing.T) {
	want := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"PRODID:-//rostercard//EN",
		"UID:urn:uuid:26580702-c2af-570e-8186-87c2415abff8",
		"FN:Jane A. Doe",
		"N:Doe;Jane;A.;;",
		"EMAIL;TYPE=INTERNET:jane.doe@example.edu",
		"TEL;TYPE=VOICE:(555) 123-4567",
		"TITLE:Student",
		"ORG:New York University",
		"X-STUDENT-ID:S00123",
		"item1.X-ABLABEL:course",
		`item1.X-ABRELATEDNAMES:MATH-UA 123\, Spring 2017`,
		"END:VCARD",
		"",
	}, "\r\n")

	assert.Equal(t, want, string(Marshal(janeDoe())))
}

func TestMarshal_Minimal(t *testing.T) {
	rec := core.ContactRecord{Name: core.Name{Family: "Cher"}, ID: "S00123"}
	got := string(Marshal(rec))

	assert.Contains(t, got, "UID:urn:uuid:c32a4e67-aafe-58b4-848b-3520298b692c\r\n")
	assert.Contains(t, got, "FN:Cher\r\n")
	assert.Contains(t, got, "N:Cher;;;;\r\n")
	assert.NotContains(t, got, "EMAIL")
	assert.NotContains(t, got, "TEL")
	assert.NotContains(t, got, "ORG")
	assert.NotContains(t, got, "TITLE")
	assert.NotContains(t, got, "item1.")
}

func TestMarshal_ProgramAndUncertainPhone(t *testing.T) {
	rec := janeDoe()
	rec.Program = "UA-Coll of Arts & Sci"
	rec.Plan = "Undecided"
	rec.Phones = []core.Phone{{Number: "1234567", Uncertain: true}}
	got := string(Marshal(rec))

	assert.Contains(t, got, "ORG:New York University;UA-Coll of Arts & Sci\r\n")
	assert.Contains(t, got, "X-PROGPLAN:UA-Coll of Arts & Sci - Undecided\r\n")
	assert.Contains(t, got, "TEL;TYPE=VOICE;X-FORMAT=UNKNOWN:1234567\r\n")
}

func TestMarshal_Idempotent(t *testing.T) {
	rec := janeDoe()
	rec.Name.Family = strings.Repeat("Ñandú; Ölçü, ", 12)
	assert.Equal(t, Marshal(rec), Marshal(rec))
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `a\,b`},
		{"a;b", `a\;b`},
		{`C:\dir`, `C:\\dir`},
		{"two\nlines", `two\nlines`},
		{"crlf\r\nend", `crlf\nend`},
		{`\,;`, `\\\,\;`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
			assert.Equal(t, strings.ReplaceAll(strings.ReplaceAll(tt.in, "\r\n", "\n"), "\r", "\n"), Unescape(Escape(tt.in)))
		})
	}
}

func TestStructuredName(t *testing.T) {
	rec := core.ContactRecord{
		Name: core.Name{Family: "O'Neil; Smith", Given: "Mary,Kate", Suffix: `Jr\`},
		ID:   "S1",
	}
	assert.Contains(t, string(Marshal(rec)), `N:O'Neil\; Smith;Mary\,Kate;;;Jr\\`+"\r\n")
}

func TestFold_ShortLineUnchanged(t *testing.T) {
	line := "FN:" + strings.Repeat("a", maxLineOctets-3)
	assert.Equal(t, line, fold(line))
}

func TestFold_Limits(t *testing.T) {
	values := []string{
		strings.Repeat("x", 400),
		strings.Repeat("é", 200),
		strings.Repeat("日本語", 60),
		strings.Repeat("🙂", 80),
		strings.Repeat(`a\,`, 100),
		strings.Repeat(`\;\\`, 90),
	}
	for _, v := range values {
		for pad := 0; pad < 8; pad++ {
			line := "NOTE:" + strings.Repeat("p", pad) + v
			folded := fold(line)
			parts := strings.Split(folded, "\r\n")
			require.Greater(t, len(parts), 1)

			for i, p := range parts {
				assert.LessOrEqual(t, len(p), maxLineOctets, "part %d", i)
				assert.True(t, utf8.ValidString(p), "part %d splits a rune", i)
				if i > 0 {
					require.True(t, strings.HasPrefix(p, " "))
					p = p[1:]
				}
				assert.False(t, endsInLoneBackslash(p), "part %d splits an escape", i)
			}

			unfolded := strings.ReplaceAll(folded, "\r\n ", "")
			assert.Equal(t, line, unfolded)
		}
	}
}

// endsInLoneBackslash reports whether s ends in an odd run of backslashes,
// i.e. an escape pair was cut in half.
func endsInLoneBackslash(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func TestRenderer_PreservesOrder(t *testing.T) {
	a, b, c := janeDoe(), janeDoe(), janeDoe()
	b.ID, b.Name = "S2", core.Name{Family: "Roe", Given: "Richard"}
	c.ID, c.Name = "S3", core.Name{Family: "Poe", Given: "Edgar"}

	r := NewRenderer()
	assert.Equal(t, ".vcf", r.Extension())

	out, err := r.Render(&core.Result{Records: []core.ContactRecord{a, b, c}})
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(out), "BEGIN:VCARD\r\n"))

	ia := bytes.Index(out, []byte("X-STUDENT-ID:S00123"))
	ib := bytes.Index(out, []byte("X-STUDENT-ID:S2"))
	ic := bytes.Index(out, []byte("X-STUDENT-ID:S3"))
	assert.True(t, ia < ib && ib < ic)

	var buf bytes.Buffer
	for _, rec := range []core.ContactRecord{a, b, c} {
		require.NoError(t, Encode(&buf, rec))
	}
	assert.Equal(t, buf.Bytes(), out)
}

func TestRenderer_Empty(t *testing.T) {
	out, err := NewRenderer().Render(&core.Result{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshal_Photo(t *testing.T) {
	rec := janeDoe()
	rec.Program = "GSAS"
	rec.Photo = core.Photo{Ref: "photos/s1.jpg", Type: "JPEG", Data: bytes.Repeat([]byte{0xff, 0xd8, 0xff, 0xe0}, 40)}
	got := string(Marshal(rec))

	lines := strings.Split(strings.TrimSuffix(got, "\r\n"), "\r\n")
	start := slices.IndexFunc(lines, func(l string) bool { return strings.HasPrefix(l, "PHOTO;") })
	require.NotEqual(t, -1, start)
	assert.True(t, strings.HasPrefix(lines[start], "PHOTO;ENCODING=b;TYPE=JPEG:/9j/4P/Y/+D/"))
	assert.Equal(t, "X-PROGPLAN:GSAS", lines[start-1])

	joined := lines[start][len("PHOTO;ENCODING=b;TYPE=JPEG:"):]
	end := start + 1
	for ; strings.HasPrefix(lines[end], " "); end++ {
		assert.LessOrEqual(t, len(lines[end]), maxLineOctets)
		joined += lines[end][1:]
	}
	assert.Greater(t, end, start+1, "photo line should be folded")
	assert.LessOrEqual(t, len(lines[start]), maxLineOctets)
	assert.Equal(t, "item1.X-ABLABEL:course", lines[end])
	assert.Equal(t, base64.StdEncoding.EncodeToString(rec.Photo.Data), joined)
}

func TestMarshal_PhotoReferenceOnly(t *testing.T) {
	rec := janeDoe()
	rec.Photo = core.Photo{Ref: "photos/missing.jpg"}
	assert.NotContains(t, string(Marshal(rec)), "PHOTO")
}
