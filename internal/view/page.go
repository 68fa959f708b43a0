package view

import (
	"fmt"

	"apodgallery/internal/dom"
	"apodgallery/internal/model"

	"golang.org/x/net/html"
)

// Region ids of the gallery page.
const (
	GalleryID       = "gallery"
	LoadingHeaderID = "loading-header"
	LoadingTextID   = "loading-text"
)

const pageSkeleton = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>NASA Space Explorer</title></head>
<body>
<div id="loading-message"><h2 id="loading-header"></h2><p id="loading-text"></p></div>
<div id="gallery" class="gallery"></div>
</body>
</html>`

// Patch carries the current content of every region a client mirrors.
type Patch struct {
	Type          string   `json:"type"`
	Gallery       string   `json:"gallery"`
	LoadingHeader string   `json:"loadingHeader"`
	LoadingText   string   `json:"loadingText"`
	Overlays      []string `json:"overlays"`
	Styles        []string `json:"styles"`
}

// Page is the document of one viewer plus handles on its regions.
type Page struct {
	Doc           *dom.Document
	Gallery       *html.Node
	LoadingHeader *html.Node
	LoadingText   *html.Node
	Modals        *ModalController
}

// NewPage builds a page from the built-in skeleton.
func NewPage(stylesheet string) (*Page, error) {
	doc, err := dom.ParseString(pageSkeleton)
	if err != nil {
		return nil, err
	}
	return NewPageFromDocument(doc, stylesheet)
}

// NewPageFromDocument binds a page to doc, which must carry the gallery and loading regions.
func NewPageFromDocument(doc *dom.Document, stylesheet string) (*Page, error) {
	p := &Page{
		Doc:           doc,
		Gallery:       doc.ByID(GalleryID),
		LoadingHeader: doc.ByID(LoadingHeaderID),
		LoadingText:   doc.ByID(LoadingTextID),
		Modals:        NewModalController(doc, stylesheet),
	}
	if p.Gallery == nil || p.LoadingHeader == nil || p.LoadingText == nil {
		return nil, fmt.Errorf("document lacks #%s, #%s or #%s", GalleryID, LoadingHeaderID, LoadingTextID)
	}
	return p, nil
}

// ClearGallery empties the gallery region.
func (p *Page) ClearGallery() {
	p.Doc.Clear(p.Gallery)
}

// ShowLoading fills the loading region.
func (p *Page) ShowLoading(header, text string) {
	p.Doc.SetText(p.LoadingHeader, header)
	p.Doc.SetText(p.LoadingText, text)
}

// ClearLoading empties the loading region.
func (p *Page) ClearLoading() {
	p.ShowLoading("", "")
}

// ShowError puts message in the loading header.
func (p *Page) ShowError(message string) {
	p.Doc.SetText(p.LoadingHeader, message)
}

// AppendItems adds one gallery node per item, in order.
func (p *Page) AppendItems(items []Item) {
	for _, item := range items {
		p.Doc.AppendChild(p.Gallery, ItemElement(p.Doc, item, p.open))
	}
}

func (p *Page) open(rec model.ImageRecord) {
	p.Modals.Open(rec)
}

// Items returns the gallery nodes in display order.
func (p *Page) Items() []*html.Node {
	return p.Doc.ByClass(p.Gallery, "gallery-item")
}

// Overlays returns the modal overlays attached to the body.
func (p *Page) Overlays() []*html.Node {
	var out []*html.Node
	for c := p.Doc.Body().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && dom.HasClass(c, "modal") {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot renders every mirrored region.
func (p *Page) Snapshot() Patch {
	patch := Patch{
		Type:          "patch",
		Gallery:       dom.InnerHTML(p.Gallery),
		LoadingHeader: dom.TextContent(p.LoadingHeader),
		LoadingText:   dom.TextContent(p.LoadingText),
		Overlays:      []string{},
		Styles:        []string{},
	}
	for _, o := range p.Overlays() {
		patch.Overlays = append(patch.Overlays, dom.Render(o))
	}
	for c := p.Doc.Head().FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "link" {
			continue
		}
		if rel, _ := dom.Attr(c, "rel"); rel == "stylesheet" {
			href, _ := dom.Attr(c, "href")
			patch.Styles = append(patch.Styles, href)
		}
	}
	return patch
}

// HTML renders the whole page.
func (p *Page) HTML() string {
	return p.Doc.String()
}
