// Package load reads roster documents from disk or a stream.
// Saved PeopleSoft pages are often framesets whose roster lives in a child
// document; File follows that frame one level.
package load

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/rostercard/core"
	"github.com/gaurav-prasanna/rostercard/core/dom"
)

// contentFrame selects the frame PeopleSoft renders page content into.
const contentFrame = "frame[name=TargetContent], iframe[name=TargetContent]"

// Page is a parsed roster document and the directory its relative
// references resolve against.
type Page struct {
	Root core.Node
	Dir  string
}

// Photos returns a source for the pictures the page refers to, or nil when
// the page has no base directory.
func (p *Page) Photos() core.PhotoSource {
	if p.Dir == "" {
		return nil
	}
	return PhotoDir(p.Dir)
}

// Open parses the HTML document at path. When the document has no table
// but names a content frame, the frame's source is parsed instead, and the
// page's Dir is the frame document's directory.
func Open(path string) (*Page, error) {
	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	src, ok := frameSource(root)
	if !ok {
		return &Page{Root: root, Dir: filepath.Dir(path)}, nil
	}

	target, err := resolve(filepath.Dir(path), src)
	if err != nil {
		return nil, fmt.Errorf("resolving frame %q: %w", src, err)
	}
	child, err := parseFile(target)
	if err != nil {
		return nil, fmt.Errorf("following frame: %w", err)
	}
	return &Page{Root: child, Dir: filepath.Dir(target)}, nil
}

// File is Open without the base directory.
func File(path string) (core.Node, error) {
	p, err := Open(path)
	if err != nil {
		return nil, err
	}
	return p.Root, nil
}

// Reader parses an HTML document from r. Frames are not followed because a
// stream has no base directory.
func Reader(r io.Reader) (core.Node, error) {
	root, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func parseFile(path string) (*dom.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	root, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func frameSource(root *dom.Node) (string, bool) {
	sel := root.Selection()
	if sel.Find("table").Length() > 0 {
		return "", false
	}
	src, ok := sel.Find(contentFrame).First().Attr("src")
	if !ok || src == "" {
		return "", false
	}
	return src, true
}

// resolve maps a frame or img src, which is a URL reference, to a local path.
func resolve(dir, src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	p := filepath.FromSlash(u.Path)
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(dir, p), nil
}
