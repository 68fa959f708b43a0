package view

import (
	"apodgallery/internal/dom"
	"apodgallery/internal/model"

	"golang.org/x/net/html"
)

// StylesID marks the injected modal stylesheet link.
const StylesID = "modal-styles"

// Modal is one open detail overlay.
type Modal struct {
	Overlay     *html.Node
	Content     *html.Node
	CloseButton *html.Node
	Record      model.ImageRecord
}

// ModalController opens and dismisses detail overlays on a document.
// At most one overlay is open; opening another closes the current one.
type ModalController struct {
	doc        *dom.Document
	stylesheet string
	current    *Modal
}

func NewModalController(doc *dom.Document, stylesheet string) *ModalController {
	return &ModalController{doc: doc, stylesheet: stylesheet}
}

// EnsureStyles appends the modal stylesheet link once. It reports whether a link was added.
func (c *ModalController) EnsureStyles() bool {
	if c.doc.ByID(StylesID) != nil {
		return false
	}
	link := c.doc.CreateElement("link")
	dom.SetAttr(link, "id", StylesID)
	dom.SetAttr(link, "rel", "stylesheet")
	dom.SetAttr(link, "href", c.stylesheet)
	c.doc.AppendChild(c.doc.Head(), link)
	return true
}

// Open shows rec in a new overlay appended to the body.
func (c *ModalController) Open(rec model.ImageRecord) *Modal {
	c.EnsureStyles()
	if c.current != nil {
		c.Close(c.current)
	}

	doc := c.doc
	overlay := doc.CreateElement("div")
	dom.AddClass(overlay, "modal")

	content := doc.CreateElement("div")
	dom.AddClass(content, "modal-content")

	closeButton := doc.CreateElement("span")
	dom.AddClass(closeButton, "close-button")
	dom.SetAttr(closeButton, "role", "button")
	dom.SetAttr(closeButton, "aria-label", "Close")
	doc.SetText(closeButton, "×")

	title := doc.CreateElement("h2")
	doc.SetText(title, rec.Title)

	date := doc.CreateElement("p")
	dom.AddClass(date, "modal-date")
	doc.SetText(date, rec.Date)

	explanation := doc.CreateElement("p")
	dom.AddClass(explanation, "modal-explanation")
	doc.SetText(explanation, rec.Explanation)

	doc.AppendChild(content, closeButton)
	doc.AppendChild(content, title)
	doc.AppendChild(content, date)
	doc.AppendChild(content, modalMedia(doc, rec))
	doc.AppendChild(content, explanation)
	if rec.Copyright != "" {
		credit := doc.CreateElement("p")
		dom.AddClass(credit, "modal-copyright")
		doc.SetText(credit, "© "+rec.Copyright)
		doc.AppendChild(content, credit)
	}
	doc.AppendChild(overlay, content)
	doc.AppendChild(doc.Body(), overlay)

	m := &Modal{Overlay: overlay, Content: content, CloseButton: closeButton, Record: rec}

	doc.AddEventListener(closeButton, dom.Click, func(e *dom.Event) {
		c.Close(m)
	})
	doc.AddEventListener(overlay, dom.Click, func(e *dom.Event) {
		if e.Target == overlay {
			c.Close(m)
		}
	})

	dom.SetStyle(overlay, "display", "block")
	c.current = m
	return m
}

// Close hides the overlay and removes it from the document. Closing twice is a no-op.
func (c *ModalController) Close(m *Modal) {
	if m == nil {
		return
	}
	if c.current == m {
		c.current = nil
	}
	if !c.doc.Attached(m.Overlay) {
		return
	}
	dom.SetStyle(m.Overlay, "display", "none")
	c.doc.Remove(m.Overlay)
}

// Current returns the open overlay, if any.
func (c *ModalController) Current() *Modal {
	return c.current
}

func modalMedia(doc *dom.Document, rec model.ImageRecord) *html.Node {
	m := MediaFor(rec)
	if m.Tag == MediaFrame {
		frame := doc.CreateElement("iframe")
		dom.AddClass(frame, "modal-video")
		dom.SetAttr(frame, "src", m.Src)
		dom.SetAttr(frame, "frameborder", "0")
		dom.SetAttr(frame, "allowfullscreen", "true")
		return frame
	}
	img := doc.CreateElement("img")
	dom.AddClass(img, "modal-image")
	dom.SetAttr(img, "src", m.Src)
	dom.SetAttr(img, "alt", m.Alt)
	return img
}
