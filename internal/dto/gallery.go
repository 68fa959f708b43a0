package dto

import "apodgallery/internal/view"

// GalleryQuery is the date range requested from the gallery endpoints (HTML date input format).
type GalleryQuery struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

// GalleryData is the JSON payload of /api/gallery.
type GalleryData struct {
	Start string      `json:"start"`
	End   string      `json:"end"`
	Count int         `json:"count"`
	Items []view.Item `json:"items"`
}

// FactData is the JSON payload of /api/fact.
type FactData struct {
	Fact string `json:"fact"`
}

// RangeData describes the default date window and the archive bounds.
type RangeData struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	ArchiveStart string `json:"archiveStart"`
	MaxDays      int    `json:"maxDays"`
}

// ErrorData is the JSON body of an error response.
type ErrorData struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}
