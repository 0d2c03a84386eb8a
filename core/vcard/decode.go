package vcard

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gaurav-prasanna/rostercard/core"
)

// Decode reads the vCards in r back into contact records. It understands
// the properties Marshal writes; anything else is ignored.
func Decode(r io.Reader) ([]core.ContactRecord, error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, err
	}

	var (
		out []core.ContactRecord
		cur *core.ContactRecord
	)
	for n, l := range lines {
		if l == "" {
			continue
		}
		name, params, value, ok := splitLine(l)
		if !ok {
			return nil, fmt.Errorf("vcard: line %d: missing ':'", n+1)
		}
		if _, after, found := strings.Cut(name, "."); found {
			name = after
		}
		name = strings.ToUpper(name)

		switch {
		case name == "BEGIN" && strings.EqualFold(value, "VCARD"):
			cur = &core.ContactRecord{}
			continue
		case name == "END" && strings.EqualFold(value, "VCARD"):
			if cur == nil {
				return nil, fmt.Errorf("vcard: line %d: END without BEGIN", n+1)
			}
			out = append(out, *cur)
			cur = nil
			continue
		case cur == nil:
			return nil, fmt.Errorf("vcard: line %d: %s outside a card", n+1, name)
		}

		switch name {
		case "N":
			parts := splitStructured(value)
			for len(parts) < 5 {
				parts = append(parts, "")
			}
			cur.Name = core.Name{Family: parts[0], Given: parts[1], Middle: parts[2], Prefix: parts[3], Suffix: parts[4]}
		case "EMAIL":
			cur.Emails = append(cur.Emails, Unescape(value))
		case "TEL":
			cur.Phones = append(cur.Phones, core.Phone{
				Number:    Unescape(value),
				Uncertain: hasParam(params, "X-FORMAT", "UNKNOWN"),
			})
		case "TITLE":
			cur.Title = Unescape(value)
		case "ORG":
			parts := splitStructured(value)
			cur.Institution = parts[0]
			if len(parts) > 1 {
				cur.Program = parts[1]
			}
		case "X-STUDENT-ID":
			cur.ID = Unescape(value)
		case "X-PROGPLAN":
			// ORG precedes X-PROGPLAN, so the program half is already known.
			pp := Unescape(value)
			if cur.Program == "" {
				cur.Plan = pp
			} else {
				cur.Plan = strings.TrimPrefix(strings.TrimPrefix(pp, cur.Program), " - ")
			}
		case "PHOTO":
			data, err := base64.StdEncoding.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("vcard: line %d: PHOTO: %w", n+1, err)
			}
			cur.Photo = core.Photo{Type: strings.ToUpper(param(params, "TYPE")), Data: data}
		case "X-ABRELATEDNAMES":
			cur.OrgContext = Unescape(value)
		}
	}
	if cur != nil {
		return nil, fmt.Errorf("vcard: unterminated card")
	}
	return out, nil
}

// Unescape reverses Escape.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// unfold joins continuation lines (those starting with a space or tab)
// onto the previous line.
func unfold(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		l := strings.TrimSuffix(sc.Text(), "\r")
		if len(l) > 0 && (l[0] == ' ' || l[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("vcard: reading: %w", err)
	}
	return lines, nil
}

// splitLine splits "name;param=x:value". Colons inside quoted parameter
// values do not end the name part.
func splitLine(l string) (name string, params []string, value string, ok bool) {
	quoted := false
	for i := 0; i < len(l); i++ {
		switch l[i] {
		case '"':
			quoted = !quoted
		case ':':
			if quoted {
				continue
			}
			head := strings.Split(l[:i], ";")
			return head[0], head[1:], l[i+1:], true
		}
	}
	return "", nil, "", false
}

func hasParam(params []string, key, val string) bool {
	for _, p := range params {
		k, v, _ := strings.Cut(p, "=")
		if strings.EqualFold(k, key) && strings.EqualFold(v, val) {
			return true
		}
	}
	return false
}

// param returns the value of the first parameter named key.
func param(params []string, key string) string {
	for _, p := range params {
		if k, v, _ := strings.Cut(p, "="); strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// splitStructured splits on unescaped semicolons and unescapes each part.
func splitStructured(s string) []string {
	var (
		parts []string
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ';':
			parts = append(parts, Unescape(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, Unescape(s[start:]))
}
