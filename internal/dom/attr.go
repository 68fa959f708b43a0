package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, replacing any previous value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether class appears in n's class list.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to n's class list if absent.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	SetAttr(n, "class", strings.TrimSpace(v+" "+class))
}

// Style returns the value of one inline style property.
func Style(n *html.Node, prop string) string {
	v, _ := Attr(n, "style")
	for _, decl := range strings.Split(v, ";") {
		k, val, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == prop {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// SetStyle sets one inline style property, keeping the others in order.
func SetStyle(n *html.Node, prop, value string) {
	v, _ := Attr(n, "style")
	var decls []string
	replaced := false
	for _, decl := range strings.Split(v, ";") {
		k, _, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == prop {
			decls = append(decls, prop+": "+value)
			replaced = true
			continue
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if !replaced {
		decls = append(decls, prop+": "+value)
	}
	SetAttr(n, "style", strings.Join(decls, "; "))
}
