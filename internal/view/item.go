// Package view turns image records into gallery markup: a pure view-model
// per record and thin adapters that build document nodes from it.
package view

import (
	"apodgallery/internal/dom"
	"apodgallery/internal/model"

	"golang.org/x/net/html"
)

// MediaTag is the element used to show a record's asset.
type MediaTag string

const (
	MediaFrame MediaTag = "iframe"
	MediaImg   MediaTag = "img"
)

// Media describes the asset node of an item.
type Media struct {
	Tag MediaTag `json:"tag"`
	Src string   `json:"src"`
	Alt string   `json:"alt"`
}

// Item is the view-model of one gallery entry.
type Item struct {
	Title  string            `json:"title"`
	Date   string            `json:"date"`
	Media  Media             `json:"media"`
	Record model.ImageRecord `json:"record"`
}

// BuildItem derives the gallery view-model of a record.
func BuildItem(rec model.ImageRecord) Item {
	return Item{
		Title:  rec.Title,
		Date:   rec.Date,
		Media:  MediaFor(rec),
		Record: rec,
	}
}

// MediaFor picks a frame for video records and an image otherwise.
func MediaFor(rec model.ImageRecord) Media {
	tag := MediaImg
	if rec.IsVideo() {
		tag = MediaFrame
	}
	return Media{Tag: tag, Src: rec.URL, Alt: rec.Title}
}

// ItemElement builds the focusable gallery node for item. Pointer clicks and
// Enter/Space key presses both call open with the item's record.
func ItemElement(doc *dom.Document, item Item, open func(model.ImageRecord)) *html.Node {
	container := doc.CreateElement("div")
	dom.AddClass(container, "gallery-item")
	dom.SetAttr(container, "tabindex", "0")
	dom.SetAttr(container, "role", "button")
	dom.SetStyle(container, "cursor", "pointer")

	title := doc.CreateElement("h2")
	doc.SetText(title, item.Title)

	date := doc.CreateElement("p")
	dom.AddClass(date, "lead")
	doc.SetText(date, item.Date)

	doc.AppendChild(container, title)
	doc.AppendChild(container, date)
	doc.AppendChild(container, thumbnailMedia(doc, item.Media))

	rec := item.Record
	doc.AddEventListener(container, dom.Click, func(e *dom.Event) {
		open(rec)
	})
	doc.AddEventListener(container, dom.KeyDown, func(e *dom.Event) {
		if e.Key == "Enter" || e.Key == " " {
			e.PreventDefault()
			open(rec)
		}
	})
	return container
}

func thumbnailMedia(doc *dom.Document, m Media) *html.Node {
	if m.Tag == MediaFrame {
		frame := doc.CreateElement("iframe")
		dom.SetAttr(frame, "src", m.Src)
		dom.SetAttr(frame, "title", m.Alt)
		dom.SetAttr(frame, "frameborder", "0")
		dom.SetAttr(frame, "allowfullscreen", "true")
		dom.SetStyle(frame, "width", "100%")
		dom.SetStyle(frame, "height", "315px")
		return frame
	}
	img := doc.CreateElement("img")
	dom.SetAttr(img, "src", m.Src)
	dom.SetAttr(img, "alt", m.Alt)
	dom.SetStyle(img, "width", "100%")
	return img
}
