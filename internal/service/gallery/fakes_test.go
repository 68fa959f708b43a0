package gallery

import (
	"context"
	"fmt"
	"sync"

	"apodgallery/internal/model"
	"apodgallery/internal/view"
)

// stubFetcher returns a record per date; dates listed in fail get the fallback.
type stubFetcher struct {
	mu       sync.Mutex
	fail     map[string]bool
	block    map[string]chan struct{}
	entered  chan string
	calls    []string
	inFlight int
	maxSeen  int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		fail:    make(map[string]bool),
		block:   make(map[string]chan struct{}),
		entered: make(chan string, 64),
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, date string) model.ImageRecord {
	f.mu.Lock()
	f.calls = append(f.calls, date)
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	release := f.block[date]
	failed := f.fail[date]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	select {
	case f.entered <- date:
	default:
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return model.Fallback(date, "/placeholder.svg")
		}
	}
	if failed {
		return model.Fallback(date, "/placeholder.svg")
	}
	return model.ImageRecord{
		Date:      date,
		Title:     fmt.Sprintf("Picture of %s", date),
		URL:       "https://apod.example/" + date + ".jpg",
		MediaKind: model.MediaImage,
	}
}

func (f *stubFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// recordingSurface keeps the surface state and a log of operations.
type recordingSurface struct {
	mu      sync.Mutex
	items   []view.Item
	header  string
	text    string
	ops     []string
	appends [][]view.Item
}

func (s *recordingSurface) ClearGallery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.ops = append(s.ops, "clear-gallery")
}

func (s *recordingSurface) ShowLoading(header, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header, s.text = header, text
	s.ops = append(s.ops, "show-loading")
}

func (s *recordingSurface) ClearLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header, s.text = "", ""
	s.ops = append(s.ops, "clear-loading")
}

func (s *recordingSurface) ShowError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = message
	s.ops = append(s.ops, "show-error")
}

func (s *recordingSurface) AppendItems(items []view.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	s.appends = append(s.appends, items)
	s.ops = append(s.ops, "append-items")
}

func (s *recordingSurface) snapshot() ([]view.Item, string, string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]view.Item(nil), s.items...), s.header, s.text, append([]string(nil), s.ops...)
}
