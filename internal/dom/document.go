// Package dom keeps an HTML document tree in memory and dispatches UI events
// against it. Every element carries a data-nid attribute so a remote client
// can name the node an event happened on.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NIDAttr is the attribute holding a node's identifier.
const NIDAttr = "data-nid"

// Document is an HTML tree plus the event listeners registered on its nodes.
// It is not safe for concurrent use.
type Document struct {
	root      *html.Node
	head      *html.Node
	body      *html.Node
	nextID    int
	byNID     map[string]*html.Node
	listeners map[*html.Node]map[string][]Listener
}

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	d := &Document{
		root:      root,
		byNID:     make(map[string]*html.Node),
		listeners: make(map[*html.Node]map[string][]Listener),
	}
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.Head:
			d.head = n
		case atom.Body:
			d.body = n
		}
		d.assignNID(n)
		return true
	})
	if d.head == nil || d.body == nil {
		return nil, fmt.Errorf("document has no head or body")
	}
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) assignNID(n *html.Node) {
	if nid, ok := Attr(n, NIDAttr); ok {
		d.byNID[nid] = n
		return
	}
	d.nextID++
	nid := "n" + strconv.Itoa(d.nextID)
	SetAttr(n, NIDAttr, nid)
	d.byNID[nid] = n
}

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// CreateElement returns a new detached element with its own node id.
func (d *Document) CreateElement(tag string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	d.assignNID(n)
	return n
}

// CreateText returns a new detached text node.
func (d *Document) CreateText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// AppendChild moves child to the end of parent's children.
func (d *Document) AppendChild(parent, child *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
}

// Remove detaches n from its parent and forgets the ids and listeners of its subtree.
func (d *Document) Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	walk(n, func(c *html.Node) bool {
		if nid, ok := Attr(c, NIDAttr); ok && d.byNID[nid] == c {
			delete(d.byNID, nid)
		}
		delete(d.listeners, c)
		return true
	})
}

// Clear removes every child of n.
func (d *Document) Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.Remove(c)
		c = next
	}
}

// SetText replaces the children of n with a single text node.
func (d *Document) SetText(n *html.Node, s string) {
	d.Clear(n)
	if s != "" {
		n.AppendChild(d.CreateText(s))
	}
}

// ByID returns the attached element whose id attribute equals id.
func (d *Document) ByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// ByNID returns the attached element with the given node id.
func (d *Document) ByNID(nid string) *html.Node {
	n, ok := d.byNID[nid]
	if !ok || !d.Attached(n) {
		return nil
	}
	return n
}

// Attached reports whether n is reachable from the document root.
func (d *Document) Attached(n *html.Node) bool {
	return Contains(d.root, n)
}

// ByClass returns the elements under root carrying class, in document order.
func (d *Document) ByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && HasClass(n, class) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Render serialises n and its subtree.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// String serialises the whole document.
func (d *Document) String() string {
	return Render(d.root)
}

// TextContent concatenates the text nodes under n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Contains reports whether n is ancestor itself or one of its descendants.
func Contains(ancestor, n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == ancestor {
			return true
		}
	}
	return false
}

// walk visits n and its descendants depth first; fn returning false skips the subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, fn)
		c = next
	}
}
