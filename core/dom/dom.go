// Package dom adapts a goquery document to the core.Node tree.
// Only this package (and the frame lookup in load) knows about goquery or
// x/net/html; every roster stage works against core.Node.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/rostercard/core"
)

// breakElements render as a separator in Text so adjacent values such as
// two e-mail addresses split by <br> do not run together.
var breakElements = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"td": true, "th": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// skipElements contribute no text.
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// Node is a core.Node backed by an x/net/html element.
type Node struct {
	doc *goquery.Document
	n   *html.Node
}

var _ core.Node = (*Node)(nil)

// Parse reads an HTML document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	root := doc.Find("html")
	if root.Length() == 0 {
		return nil, fmt.Errorf("parsing HTML: no root element")
	}
	return &Node{doc: doc, n: root.Nodes[0]}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// Selection exposes the underlying goquery selection for callers that need
// CSS selectors.
func (n *Node) Selection() *goquery.Selection {
	return n.doc.FindNodes(n.n)
}

// Tag returns the lowercase element name.
func (n *Node) Tag() string { return n.n.Data }

// Text returns the descendant text with block boundaries rendered as spaces.
func (n *Node) Text() string {
	var b strings.Builder
	writeText(&b, n.n)
	return b.String()
}

// Attr looks up an attribute by case-insensitive name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Children returns the element children, skipping text and comments.
func (n *Node) Children() []core.Node {
	var out []core.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Node{doc: n.doc, n: c})
		}
	}
	return out
}

// FindAll returns the descendant elements with the given tag in document order.
func (n *Node) FindAll(tag string) []core.Node {
	found := n.Selection().Find(tag)
	out := make([]core.Node, 0, found.Length())
	for _, hn := range found.Nodes {
		out = append(out, &Node{doc: n.doc, n: hn})
	}
	return out
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipElements[n.Data] {
			return
		}
	case html.CommentNode:
		return
	}
	sep := n.Type == html.ElementNode && breakElements[n.Data]
	if sep {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if sep {
		b.WriteByte(' ')
	}
}
