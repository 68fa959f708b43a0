package view

import (
	"testing"

	"apodgallery/internal/dom"
	"apodgallery/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	imageRecord = model.ImageRecord{
		Date:        "2024-01-01",
		Title:       "Orion Nebula",
		Explanation: "Stars are forming.",
		URL:         "https://apod.example/orion.jpg",
		MediaKind:   model.MediaImage,
	}
	videoRecord = model.ImageRecord{
		Date:        "2024-01-02",
		Title:       "Launch",
		Explanation: "Liftoff.",
		URL:         "https://www.youtube.com/embed/abc",
		MediaKind:   model.MediaVideo,
		Copyright:   "Someone",
	}
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := NewPage("/static/css/modal.css")
	require.NoError(t, err)
	return p
}

func TestBuildItem(t *testing.T) {
	item := BuildItem(imageRecord)
	assert.Equal(t, "Orion Nebula", item.Title)
	assert.Equal(t, "2024-01-01", item.Date)
	assert.Equal(t, Media{Tag: MediaImg, Src: imageRecord.URL, Alt: "Orion Nebula"}, item.Media)
	assert.Equal(t, imageRecord, item.Record)

	video := BuildItem(videoRecord)
	assert.Equal(t, MediaFrame, video.Media.Tag)
}

func TestItemElement_Structure(t *testing.T) {
	p := newTestPage(t)

	n := ItemElement(p.Doc, BuildItem(imageRecord), func(model.ImageRecord) {})

	assert.True(t, dom.HasClass(n, "gallery-item"))
	tabindex, _ := dom.Attr(n, "tabindex")
	assert.Equal(t, "0", tabindex)

	title := n.FirstChild
	date := title.NextSibling
	media := date.NextSibling
	assert.Equal(t, "h2", title.Data)
	assert.Equal(t, "Orion Nebula", dom.TextContent(title))
	assert.Equal(t, "p", date.Data)
	assert.True(t, dom.HasClass(date, "lead"))
	assert.Equal(t, "2024-01-01", dom.TextContent(date))
	assert.Equal(t, "img", media.Data)
	assert.Equal(t, "100%", dom.Style(media, "width"))
}

func TestItemElement_VideoFrame(t *testing.T) {
	p := newTestPage(t)

	n := ItemElement(p.Doc, BuildItem(videoRecord), func(model.ImageRecord) {})
	media := n.LastChild

	assert.Equal(t, "iframe", media.Data)
	src, _ := dom.Attr(media, "src")
	assert.Equal(t, videoRecord.URL, src)
	assert.Equal(t, "315px", dom.Style(media, "height"))
	assert.Equal(t, "100%", dom.Style(media, "width"))
}

func TestItemElement_ClickAndKeyboardParity(t *testing.T) {
	p := newTestPage(t)
	var opened []model.ImageRecord
	n := ItemElement(p.Doc, BuildItem(imageRecord), func(r model.ImageRecord) {
		opened = append(opened, r)
	})
	p.Doc.AppendChild(p.Gallery, n)

	p.Doc.Dispatch(&dom.Event{Type: dom.Click, Target: n.FirstChild})
	require.Len(t, opened, 1)

	enter := &dom.Event{Type: dom.KeyDown, Key: "Enter", Target: n}
	p.Doc.Dispatch(enter)
	assert.True(t, enter.DefaultPrevented())

	space := &dom.Event{Type: dom.KeyDown, Key: " ", Target: n}
	p.Doc.Dispatch(space)
	assert.True(t, space.DefaultPrevented())

	other := &dom.Event{Type: dom.KeyDown, Key: "a", Target: n}
	p.Doc.Dispatch(other)
	assert.False(t, other.DefaultPrevented())

	require.Len(t, opened, 3)
	for _, r := range opened {
		assert.Equal(t, imageRecord, r)
	}
}
