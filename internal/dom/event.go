package dom

import "golang.org/x/net/html"

// Event types understood by the gallery page.
const (
	Click   = "click"
	KeyDown = "keydown"
)

// Event is a UI event travelling from its target up to the document root.
type Event struct {
	Type          string
	Key           string
	Target        *html.Node
	CurrentTarget *html.Node

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the browser default action as suppressed.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event delivered to a node.
type Listener func(e *Event)

// AddEventListener registers fn for events of type typ reaching n.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], fn)
}

// Listeners returns how many listeners of type typ are registered on n.
func (d *Document) Listeners(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// Dispatch delivers e to its target and then to each ancestor (bubbling).
// Listeners may mutate the tree; the path is fixed before delivery starts.
// It returns false when a listener prevented the default action.
func (d *Document) Dispatch(e *Event) bool {
	if e.Target == nil {
		return true
	}
	var path []*html.Node
	for n := e.Target; n != nil; n = n.Parent {
		path = append(path, n)
	}
	for _, n := range path {
		fns := append([]Listener(nil), d.listeners[n][e.Type]...)
		e.CurrentTarget = n
		for _, fn := range fns {
			fn(e)
		}
		if e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}
