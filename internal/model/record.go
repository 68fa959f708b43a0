package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used by the APOD archive and HTML date inputs.
const DateLayout = "2006-01-02"

// MediaKind selects how a record's asset is rendered.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// ParseMediaKind maps the remote media_type value to a MediaKind.
// Only "video" is treated as video; everything else renders as an image.
func ParseMediaKind(v string) MediaKind {
	if v == string(MediaVideo) {
		return MediaVideo
	}
	return MediaImage
}

// ImageRecord represents one day's entry of the image-of-the-day archive.
type ImageRecord struct {
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Explanation string    `json:"explanation"`
	URL         string    `json:"url"`
	MediaKind   MediaKind `json:"media_type"`
	HDURL       string    `json:"hdurl,omitempty"`
	Copyright   string    `json:"copyright,omitempty"`
}

// IsVideo reports whether the record should be embedded as a frame.
func (r ImageRecord) IsVideo() bool {
	return r.MediaKind == MediaVideo
}

const (
	FallbackTitle       = "Image Not Found"
	FallbackExplanation = "An image could not be found for this date. Please try again later."
)

// Fallback builds the placeholder record substituted when a fetch fails.
func Fallback(date, placeholderURL string) ImageRecord {
	return ImageRecord{
		Date:        date,
		Title:       FallbackTitle,
		Explanation: FallbackExplanation,
		URL:         placeholderURL,
		MediaKind:   MediaImage,
	}
}

// ParseDate parses a "2006-01-02" string into a UTC midnight time.
func ParseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", v, err)
	}
	return t, nil
}

// FormatDate formats t as "2006-01-02" in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Truncate drops the time of day, keeping the calendar date of t.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the number of calendar days in [start, end], or 0 when start is after end.
func DaysInclusive(start, end time.Time) int {
	s, e := Truncate(start), Truncate(end)
	if s.After(e) {
		return 0
	}
	n := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}
