package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/rostercard/core"
)

func sampleResult() *core.Result {
	return &core.Result{
		Course: core.Course{
			Code:        "MATH-UA 123 - 001",
			Name:        "Calculus I",
			Term:        "Spring 2017",
			Institution: "New York University",
			Instructor:  "Ada Lovelace",
		},
		Header: []string{"Name", "Campus ID", "Email Address", "Phone"},
		Records: []core.ContactRecord{
			{
				Name:   core.Name{Family: "Doe", Given: "Jane", Middle: "A."},
				ID:     "N10000001",
				Emails: []string{"jad123@nyu.edu", "jane@example.com"},
				Phones: []core.Phone{{Number: "(555) 123-4567"}},
			},
			{
				Name: core.Name{Family: "García Márquez", Given: "Gabriel", Middle: "José"},
				ID:   "N10000005",
			},
		},
		Diagnostics: []core.Diagnostic{
			{Row: 3, Kind: core.KindMissingRequiredField, Field: "id", Message: "id is blank"},
		},
		Converted: 2,
		Skipped:   1,
	}
}

func TestAMCRenderer(t *testing.T) {
	r := NewAMCRenderer()
	assert.Equal(t, ".csv", r.Extension())

	out, err := r.Render(sampleResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Campus ID", "surname", "name", "NetID", "email", "id"},
		{"N10000001", "Doe", "Jane A.", "jad123", "jad123@nyu.edu", "10000001"},
		{"N10000005", "García Márquez", "Gabriel José", "", "", "10000005"},
	}, rows)
	assert.True(t, strings.HasSuffix(string(out), "\r\n"))
}

func TestAMCRenderer_HeaderOnly(t *testing.T) {
	out, err := NewAMCRenderer().Render(&core.Result{})
	require.NoError(t, err)
	assert.Equal(t, "Campus ID,surname,name,NetID,email,id\r\n", string(out))
}

func TestJSONRenderer(t *testing.T) {
	r := NewJSONRenderer()
	assert.Equal(t, ".json", r.Extension())

	in := sampleResult()
	out, err := r.Render(in)
	require.NoError(t, err)

	var got core.Result
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, in.Course, got.Course)
	assert.Equal(t, in.Diagnostics, got.Diagnostics)
	assert.Equal(t, 2, got.Converted)
	assert.Equal(t, 1, got.Skipped)
	require.Len(t, got.Records, 2)
	assert.Equal(t, in.Records[0], got.Records[0])
	assert.Contains(t, string(out), `"emails": []`)
}

func TestJSONRenderer_EmptyListsAreArrays(t *testing.T) {
	out, err := NewJSONRenderer().Render(&core.Result{})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Equal(t, []any{}, raw["records"])
	assert.Equal(t, []any{}, raw["diagnostics"])
	assert.Equal(t, []any{}, raw["header"])
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer()
	assert.Equal(t, ".md", r.Extension())

	out, err := r.Render(sampleResult())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# MATH"), md)
	assert.Contains(t, md, "Spring 2017")
	assert.Contains(t, md, "Ada Lovelace")
	assert.Contains(t, md, "**Jane A. Doe**")
	assert.Contains(t, md, "mailto:jad123@nyu.edu")
	assert.Contains(t, md, "(555) 123-4567")
	assert.Contains(t, md, "Gabriel José García Márquez")
	assert.Contains(t, md, "Row 3")
	assert.Less(t, strings.Index(md, "Jane"), strings.Index(md, "Gabriel"))
}

func TestMarkdownRenderer_Untitled(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(&core.Result{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# Class list"))
	assert.NotContains(t, string(out), "Row ")
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()
	assert.Equal(t, ".pdf", r.Extension())

	out, err := r.Render(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%EOF")
}

func TestPDFRenderer_ManyPages(t *testing.T) {
	res := &core.Result{}
	for i := 0; i < 200; i++ {
		res.Records = append(res.Records, core.ContactRecord{
			Name: core.Name{Family: strings.Repeat("Long", 20), Given: "Name"},
			ID:   "N1",
		})
	}
	out, err := NewPDFRenderer().Render(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
