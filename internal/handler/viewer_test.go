package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"apodgallery/internal/dom"
	"apodgallery/internal/dto"
	"apodgallery/internal/logger"
	"apodgallery/internal/service/gallery"
	"apodgallery/internal/view"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewerConn struct {
	t    *testing.T
	conn *websocket.Conn
}

// viewerServer serves viewer sessions for pages from the given origins.
func viewerServer(t *testing.T, origins ...string) string {
	t.Helper()
	m, cfg := newTestManager(t)
	cfg.AllowedOrigins = origins
	srv := httptest.NewServer(ViewerWebsocketHandler(m, cfg, logger.NewNop()))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string, header http.Header) *viewerConn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &viewerConn{t: t, conn: conn}
}

func dialViewer(t *testing.T) *viewerConn {
	t.Helper()
	return dial(t, viewerServer(t), nil)
}

func (v *viewerConn) send(msg dto.ViewerMessage) {
	v.t.Helper()
	require.NoError(v.t, v.conn.WriteJSON(msg))
}

// next returns the next message of type typ, skipping the others.
func (v *viewerConn) next(typ string) json.RawMessage {
	v.t.Helper()
	v.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var raw json.RawMessage
		require.NoError(v.t, v.conn.ReadJSON(&raw))
		var head struct {
			Type string `json:"type"`
		}
		require.NoError(v.t, json.Unmarshal(raw, &head))
		if head.Type == typ {
			return raw
		}
	}
}

// patchUntil reads patches until one satisfies ok.
func (v *viewerConn) patchUntil(ok func(view.Patch) bool) view.Patch {
	v.t.Helper()
	for {
		var p view.Patch
		require.NoError(v.t, json.Unmarshal(v.next("patch"), &p))
		if ok(p) {
			return p
		}
	}
}

// nids parses rendered markup and returns the node ids of the elements with class.
func nids(t *testing.T, markup, class string) []string {
	t.Helper()
	doc, err := dom.ParseString("<html><head></head><body>" + markup + "</body></html>")
	require.NoError(t, err)
	var out []string
	for _, n := range doc.ByClass(doc.Body(), class) {
		nid, _ := dom.Attr(n, dom.NIDAttr)
		out = append(out, nid)
	}
	return out
}

func populated(p view.Patch) bool {
	return strings.Contains(p.Gallery, "gallery-item") && p.LoadingHeader == ""
}

func TestViewer_FetchPopulatesGallery(t *testing.T) {
	v := dialViewer(t)
	v.next("patch")

	v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-01", End: "2024-01-03"})

	loading := v.patchUntil(func(p view.Patch) bool { return p.LoadingHeader != "" })
	assert.Equal(t, gallery.FactHeader, loading.LoadingHeader)
	assert.Equal(t, onlyFact, loading.LoadingText)

	done := v.patchUntil(populated)
	assert.Len(t, nids(t, done.Gallery, "gallery-item"), 3)
	assert.Contains(t, done.Gallery, "Image Not Found")
	assert.Empty(t, done.Overlays)
}

func TestViewer_ProgressMessages(t *testing.T) {
	v := dialViewer(t)

	v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-01", End: "2024-01-02"})

	var p dto.ProgressMessage
	require.NoError(t, json.Unmarshal(v.next("progress"), &p))
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, "2024-01-01", p.Date)
}

func TestViewer_ClickOpensAndCloseButtonCloses(t *testing.T) {
	v := dialViewer(t)
	v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-01", End: "2024-01-02"})
	done := v.patchUntil(populated)
	items := nids(t, done.Gallery, "gallery-item")
	require.Len(t, items, 2)

	v.send(dto.ViewerMessage{Type: dto.MessageEvent, Event: dom.Click, Target: items[1]})
	opened := v.patchUntil(func(p view.Patch) bool { return len(p.Overlays) == 1 })
	assert.Contains(t, opened.Overlays[0], "Picture 2024-01-02")
	assert.Contains(t, opened.Styles, "/static/css/modal.css")

	content := nids(t, opened.Overlays[0], "modal-content")
	require.Len(t, content, 1)
	v.send(dto.ViewerMessage{Type: dto.MessageEvent, Event: dom.Click, Target: content[0]})
	still := v.patchUntil(func(view.Patch) bool { return true })
	assert.Len(t, still.Overlays, 1)

	closeButton := nids(t, opened.Overlays[0], "close-button")
	require.Len(t, closeButton, 1)
	v.send(dto.ViewerMessage{Type: dto.MessageEvent, Event: dom.Click, Target: closeButton[0]})
	closed := v.patchUntil(func(view.Patch) bool { return true })
	assert.Empty(t, closed.Overlays)
}

func TestViewer_KeyboardOpens(t *testing.T) {
	v := dialViewer(t)
	v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-01", End: "2024-01-01"})
	items := nids(t, v.patchUntil(populated).Gallery, "gallery-item")
	require.Len(t, items, 1)

	v.send(dto.ViewerMessage{Type: dto.MessageEvent, Event: dom.KeyDown, Target: items[0], Key: "a"})
	v.send(dto.ViewerMessage{Type: dto.MessageEvent, Event: dom.KeyDown, Target: items[0], Key: " "})

	first := v.patchUntil(func(view.Patch) bool { return true })
	assert.Empty(t, first.Overlays)
	second := v.patchUntil(func(view.Patch) bool { return true })
	assert.Len(t, second.Overlays, 1)
}

func TestViewer_RangeTooLongIsANotice(t *testing.T) {
	v := dialViewer(t)

	v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2020-01-01", End: "2024-01-01"})

	var n dto.NoticeMessage
	require.NoError(t, json.Unmarshal(v.next("notice"), &n))
	assert.Contains(t, n.Message, "too long")
}

func TestViewer_InvalidDateFails(t *testing.T) {
	v := dialViewer(t)

	v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "not-a-date", End: "2024-01-01"})

	failed := v.patchUntil(func(p view.Patch) bool { return p.LoadingHeader == gallery.ErrorMessage })
	assert.Empty(t, failed.Gallery)
}

func TestViewer_UnknownTargetIgnored(t *testing.T) {
	v := dialViewer(t)
	v.next("patch")

	v.send(dto.ViewerMessage{Type: dto.MessageEvent, Event: dom.Click, Target: "n9999"})
	v.send(dto.ViewerMessage{Type: dto.MessageSync})

	p := v.patchUntil(func(view.Patch) bool { return true })
	assert.Empty(t, p.Overlays)
}

func TestViewer_LatestFetchWins(t *testing.T) {
	v := dialViewer(t)
	v.next("patch")

	for i := 0; i < 5; i++ {
		v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-01", End: "2024-01-02"})
		v.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-05", End: "2024-01-06"})

		done := v.patchUntil(populated)
		assert.Contains(t, done.Gallery, "Picture 2024-01-05")
		assert.NotContains(t, done.Gallery, "Picture 2024-01-01")
		assert.Len(t, nids(t, done.Gallery, "gallery-item"), 2)

		v.send(dto.ViewerMessage{Type: dto.MessageSync})
		synced := v.patchUntil(func(p view.Patch) bool { return p.LoadingHeader == "" })
		assert.Contains(t, synced.Gallery, "Picture 2024-01-05")
		assert.NotContains(t, synced.Gallery, "Picture 2024-01-01")
	}
}

func TestViewer_SyncResendsOnlyThisSessionsPage(t *testing.T) {
	url := viewerServer(t)
	first := dial(t, url, nil)
	first.send(dto.ViewerMessage{Type: dto.MessageFetch, Start: "2024-01-01", End: "2024-01-02"})
	first.patchUntil(populated)

	// A reconnect is a new session and starts from an empty page.
	second := dial(t, url, nil)
	fresh := second.patchUntil(func(view.Patch) bool { return true })
	assert.Empty(t, fresh.Gallery)
	second.send(dto.ViewerMessage{Type: dto.MessageSync})
	assert.Empty(t, second.patchUntil(func(view.Patch) bool { return true }).Gallery)

	first.send(dto.ViewerMessage{Type: dto.MessageSync})
	synced := first.patchUntil(func(p view.Patch) bool { return p.LoadingHeader == "" })
	assert.Len(t, nids(t, synced.Gallery, "gallery-item"), 2)
}

func TestViewer_OriginCheck(t *testing.T) {
	url := viewerServer(t, "https://viewer.example")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	for _, origin := range []string{"https://viewer.example", "http://" + strings.TrimPrefix(url, "ws://")} {
		v := dial(t, url, http.Header{"Origin": {origin}})
		v.next("patch")
	}
	dial(t, url, nil).next("patch")
}

func TestViewer_SameOriginOnlyByDefault(t *testing.T) {
	url := viewerServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://viewer.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
