package vcard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/rostercard/core"
)

func TestDecode_RoundTrip(t *testing.T) {
	records := []core.ContactRecord{
		janeDoe(),
		{
			Name:        core.Name{Family: `Back\slash, Jr`, Given: "Semi;Colon", Middle: "Comma, Middle", Suffix: "III"},
			ID:          `ID;1,\2`,
			OrgContext:  "CSCI-UA 101 - 003, Fall 2024",
			Institution: "Université de Montréal",
			Title:       "Student",
			Emails:      []string{"a@x.edu", "b@y.org"},
			Phones:      []core.Phone{{Number: "(212) 555-0100"}, {Number: "44207946", Uncertain: true}},
			Program:     "GSAS",
			Plan:        "Mathematics",
		},
		{
			Name: core.Name{
				Family: strings.Repeat("Üñíçødé-", 20),
				Given:  strings.Repeat("長い名前", 15),
			},
			ID:         "S3",
			OrgContext: strings.Repeat(`long\;label, `, 10),
		},
		{
			Name:  core.Name{Family: "Poe", Given: "Ed"},
			ID:    "S4",
			Photo: core.Photo{Type: "PNG", Data: []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00\x01", 60))},
		},
	}

	var buf bytes.Buffer
	for _, rec := range records {
		require.NoError(t, Encode(&buf, rec))
	}

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i := range records {
		assert.Equal(t, records[i], got[i], "record %d", i)
	}
}

func TestDecode_LFOnlyAndTabContinuation(t *testing.T) {
	src := "BEGIN:VCARD\nVERSION:3.0\nN:Doe;Ja\n\tne;;;\nX-STUDENT-ID:S1\nEND:VCARD\n"
	got, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, core.Name{Family: "Doe", Given: "Jane"}, got[0].Name)
	assert.Equal(t, "S1", got[0].ID)
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"outside card": "FN:Nobody\r\n",
		"no colon":     "BEGIN:VCARD\r\nGARBAGE\r\nEND:VCARD\r\n",
		"unterminated": "BEGIN:VCARD\r\nFN:x\r\n",
		"stray end":    "END:VCARD\r\n",
		"bad photo":    "BEGIN:VCARD\r\nPHOTO;ENCODING=b;TYPE=JPEG:@@@\r\nEND:VCARD\r\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	got, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}
