package dto

// Inbound viewer message types.
const (
	MessageFetch = "fetch"
	MessageEvent = "event"
	MessageSync  = "sync"
)

// ViewerMessage is sent by the page script over the viewer WebSocket.
type ViewerMessage struct {
	Type   string `json:"type"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Event  string `json:"event,omitempty"`
	Target string `json:"target,omitempty"`
	Key    string `json:"key,omitempty"`
}

// ProgressMessage reports that Index of Total dates of a run have been fetched.
type ProgressMessage struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Total int    `json:"total"`
	Date  string `json:"date"`
}

// NoticeMessage carries a message the page shows outside the gallery.
type NoticeMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
