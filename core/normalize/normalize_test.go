package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/rostercard/core"
)

func TestWhitespace(t *testing.T) {
	assert.Equal(t, "Doe, Jane A.", Whitespace("  Doe,\n\t Jane   A.  "))
	assert.Equal(t, "a b", Whitespace("a  b"))
	assert.Equal(t, "", Whitespace(" \n "))
}

func TestHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"  Campus   ID ", "campus id"},
		{"E-Mail Address:", "e mail address"},
		{"Téléphone", "telephone"},
		{"Program and Plan", "program and plan"},
		{"ID #", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Header(tt.in))
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     core.Name
		wantWarn core.ErrorKind
	}{
		{
			name: "family given middle",
			in:   "Doe, Jane A.",
			want: core.Name{Family: "Doe", Given: "Jane", Middle: "A."},
		},
		{
			name: "given only",
			in:   "Doe,Jane",
			want: core.Name{Family: "Doe", Given: "Jane"},
		},
		{
			name: "several middle names",
			in:   "García Márquez, Gabriel José de la",
			want: core.Name{Family: "García Márquez", Given: "Gabriel", Middle: "José de la"},
		},
		{
			name: "suffix token",
			in:   "Doe, John Q. Jr.",
			want: core.Name{Family: "Doe", Given: "John", Middle: "Q.", Suffix: "Jr."},
		},
		{
			name: "suffix after second comma",
			in:   "Doe, John, III",
			want: core.Name{Family: "Doe", Given: "John", Suffix: "III"},
		},
		{
			name: "single V stays a middle initial",
			in:   "Doe, John V",
			want: core.Name{Family: "Doe", Given: "John", Middle: "V"},
		},
		{
			name:     "no comma is family only",
			in:       "Madonna",
			want:     core.Name{Family: "Madonna"},
			wantWarn: core.KindLowConfidenceName,
		},
		{
			name:     "nothing after comma",
			in:       "Doe,",
			want:     core.Name{Family: "Doe"},
			wantWarn: core.KindLowConfidenceName,
		},
		{
			name: "whitespace collapsed",
			in:   "  Doe ,\n  Jane\t\tAnn  ",
			want: core.Name{Family: "Doe", Given: "Jane", Middle: "Ann"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warn := SplitName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarn, warn.Kind)
			if tt.wantWarn != "" {
				assert.Equal(t, "name", warn.Field)
				assert.NotEmpty(t, warn.Msg)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in       string
		want     core.Phone
		wantWarn bool
	}{
		{"555-123-4567", core.Phone{Number: "(555) 123-4567"}, false},
		{"(555) 123 4567", core.Phone{Number: "(555) 123-4567"}, false},
		{"+1 555.123.4567", core.Phone{Number: "(555) 123-4567"}, false},
		{"5551234567", core.Phone{Number: "(555) 123-4567"}, false},
		{"123-4567", core.Phone{Number: "1234567", Uncertain: true}, true},
		{"+44 20 7946 0958", core.Phone{Number: "442079460958", Uncertain: true}, true},
		{"", core.Phone{}, false},
		{"n/a", core.Phone{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, warn := Phone(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantWarn {
				assert.Equal(t, core.KindUncertainPhone, warn.Kind)
			} else {
				assert.True(t, warn.IsZero())
			}
		})
	}
}

func TestEmail(t *testing.T) {
	valid := map[string]string{
		"jane.doe@example.edu":      "jane.doe@example.edu",
		"  Jane.Doe@Example.EDU ":   "jane.doe@example.edu",
		"mailto:jd123@nyu.edu":      "jd123@nyu.edu",
		"first+tag@mail.school.org": "first+tag@mail.school.org",
	}
	for in, want := range valid {
		got, warn := Email(in)
		assert.Equal(t, want, got, in)
		assert.True(t, warn.IsZero(), in)
	}

	invalid := []string{
		"", "jane", "@example.edu", "jane@", "jane@localhost",
		"jane@@example.edu", "jane@example..edu", "jane@.edu", "jane doe@example.edu",
	}
	for _, in := range invalid {
		got, warn := Email(in)
		assert.Empty(t, got, in)
		assert.Equal(t, core.KindInvalidEmail, warn.Kind, in)
	}
}

func TestEmails(t *testing.T) {
	got, warnings := Emails("Jane@Example.edu; jd@nyu.edu, jane@example.edu not-an-email")
	assert.Equal(t, []string{"jane@example.edu", "jd@nyu.edu"}, got)
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, core.KindInvalidEmail, warnings[0].Kind)
	}

	got, warnings = Emails("   ")
	assert.Empty(t, got)
	assert.Empty(t, warnings)
}

func TestProgramPlan(t *testing.T) {
	program, plan := ProgramPlan("UA-Coll of Arts & Sci - \n\nUndecided")
	assert.Equal(t, "UA-Coll of Arts & Sci", program)
	assert.Equal(t, "Undecided", plan)

	program, plan = ProgramPlan("Graduate School of Arts and Science")
	assert.Equal(t, "Graduate School of Arts and Science", program)
	assert.Empty(t, plan)
}
