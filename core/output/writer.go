// Package output handles file naming and writing for rostercard outputs.
// A run either writes one document (to a file or stdout) or, with
// --save-dir, one file per card named after the student.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/rostercard/core"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteFile writes data to name inside the output directory.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	path := filepath.Join(w.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteCards writes one file per record, named from the formatted name.
// Names that collide within the run get -2, -3, … appended, skipping any
// stem already written, so no card overwrites another. Paths are returned
// in record order.
func (w *Writer) WriteCards(records []core.ContactRecord, ext string, encode func(core.ContactRecord) []byte) ([]string, error) {
	taken := make(map[string]bool, len(records))
	paths := make([]string, 0, len(records))
	for _, rec := range records {
		stem := uniqueStem(cardName(rec), taken)
		taken[strings.ToLower(stem)] = true
		path, err := w.WriteFile(stem+ext, encode(rec))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// uniqueStem returns base, or base-N with the smallest N >= 2 that is not
// yet taken. taken holds lowercased stems, since some file systems fold case.
func uniqueStem(base string, taken map[string]bool) string {
	if !taken[strings.ToLower(base)] {
		return base
	}
	for n := 2; ; n++ {
		if stem := base + "-" + strconv.Itoa(n); !taken[strings.ToLower(stem)] {
			return stem
		}
	}
}

// WriteStream copies data to an already open destination such as stdout.
func WriteStream(dst io.Writer, data []byte) error {
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// cardName is the file stem for a record: the formatted name, or the ID
// when the name is empty.
func cardName(rec core.ContactRecord) string {
	name := rec.Name.Formatted()
	if name == "" {
		name = rec.ID
	}
	if s := sanitize(name); strings.Trim(s, "_") != "" {
		return s
	}
	return "card"
}

// sanitize replaces characters that are unsafe in file names with
// underscores. Letters outside ASCII are kept.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '.' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
