// Package normalize cleans and splits raw roster cell text into canonical
// sub-fields. Every function here is pure: same input, same output, no I/O.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gaurav-prasanna/rostercard/core"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Whitespace trims s and collapses internal whitespace runs (including
// non-breaking spaces) to a single space.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Header turns header cell text into a lookup key: lowercase, accents
// stripped, punctuation replaced by spaces, whitespace collapsed.
// "E-Mail Address:" becomes "e mail address". Synonym tables are keyed
// through Header as well, so both sides agree.
func Header(s string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	return Whitespace(mapped)
}

// generational suffixes recognized at the end of a name. A bare "V" is left
// out on purpose: it is far more often a middle initial.
var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

func isSuffix(tok string) bool {
	return suffixes[strings.ToLower(strings.TrimSuffix(strings.TrimSpace(tok), "."))]
}

// SplitName splits a "Last, First Middle" name. Everything before the first
// comma is the family name; the first token after it is the given name and
// the remaining tokens form the middle name. A trailing generational suffix
// ("Jr.", "III", or one after a second comma) goes to Suffix.
//
// A name without a comma becomes family-only and is reported as a
// low-confidence parse.
func SplitName(s string) (core.Name, core.FieldWarning) {
	s = Whitespace(s)
	family, rest, ok := strings.Cut(s, ",")
	if !ok {
		return core.Name{Family: s}, core.FieldWarning{
			Kind:  core.KindLowConfidenceName,
			Field: "name",
			Msg:   fmt.Sprintf("no comma in %q; treated as family name only", s),
		}
	}

	var n core.Name
	n.Family = strings.TrimSpace(family)

	if i := strings.LastIndex(rest, ","); i >= 0 && isSuffix(rest[i+1:]) {
		n.Suffix = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}
	// Stray commas beyond the first are not meaningful in this convention.
	tokens := strings.Fields(strings.ReplaceAll(rest, ",", " "))
	if n.Suffix == "" && len(tokens) > 1 && isSuffix(tokens[len(tokens)-1]) {
		n.Suffix = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 0 {
		n.Given = tokens[0]
		n.Middle = strings.Join(tokens[1:], " ")
	}
	if n.Given == "" && n.Family != "" {
		return n, core.FieldWarning{
			Kind:  core.KindLowConfidenceName,
			Field: "name",
			Msg:   fmt.Sprintf("no given name after comma in %q", s),
		}
	}
	return n, core.FieldWarning{}
}

// Phone strips everything but digits. Ten digits (or eleven with a leading
// country code 1) are formatted as "(AAA) BBB-CCCC"; any other non-zero
// length is kept as bare digits and marked uncertain. Blank input yields a
// zero Phone and no warning.
func Phone(s string) (core.Phone, core.FieldWarning) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	switch len(digits) {
	case 0:
		return core.Phone{}, core.FieldWarning{}
	case 10:
		return core.Phone{Number: "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]}, core.FieldWarning{}
	}
	return core.Phone{Number: digits, Uncertain: true}, core.FieldWarning{
		Kind:  core.KindUncertainPhone,
		Field: "phone",
		Msg:   fmt.Sprintf("phone %q has %d digits; kept unformatted", Whitespace(s), len(digits)),
	}
}

// Email lowercases and trims s and checks the minimal shape
// local@domain.tld. An invalid address returns "" and a warning.
func Email(s string) (string, core.FieldWarning) {
	e := strings.ToLower(strings.TrimSpace(s))
	e = strings.TrimPrefix(e, "mailto:")
	if validEmail(e) {
		return e, core.FieldWarning{}
	}
	return "", core.FieldWarning{
		Kind:  core.KindInvalidEmail,
		Field: "email",
		Msg:   fmt.Sprintf("dropped invalid e-mail %q", strings.TrimSpace(s)),
	}
}

func validEmail(e string) bool {
	if e == "" || strings.IndexFunc(e, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(e, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

// Emails splits a cell that may hold several addresses (separated by
// commas, semicolons or whitespace) and returns the valid ones in order,
// without duplicates.
func Emails(cell string) ([]string, []core.FieldWarning) {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	var (
		out      []string
		warnings []core.FieldWarning
		seen     = make(map[string]bool, len(parts))
	)
	for _, p := range parts {
		e, w := Email(p)
		if !w.IsZero() {
			warnings = append(warnings, w)
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out, warnings
}

// ProgramPlan unpacks "UA-Coll of Arts & Sci - Undecided" into its program
// and plan halves. Without a separator the whole text is the program.
func ProgramPlan(s string) (program, plan string) {
	s = Whitespace(s)
	program, plan, _ = strings.Cut(s, " - ")
	return strings.TrimSpace(program), strings.TrimSpace(plan)
}
