// Package gallery drives the per-date fetch pipeline and renders its result.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apodgallery/internal/model"
	"apodgallery/internal/service/apod"
	"apodgallery/internal/view"
)

// ErrInvalidDate is returned when a range bound cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ProgressFunc is called after each item is built; index is zero based.
type ProgressFunc func(index, total int, item view.Item)

// Orchestrator fetches one record per day of a range, one request at a time.
type Orchestrator struct {
	fetcher  apod.Fetcher
	progress ProgressFunc
}

func NewOrchestrator(fetcher apod.Fetcher) *Orchestrator {
	return &Orchestrator{fetcher: fetcher}
}

// WithProgress returns a copy of o that reports each built item to fn.
func (o *Orchestrator) WithProgress(fn ProgressFunc) *Orchestrator {
	cp := *o
	cp.progress = fn
	return &cp
}

// RunRange parses "2006-01-02" bounds and runs the range.
func (o *Orchestrator) RunRange(ctx context.Context, start, end string) ([]view.Item, error) {
	s, err := model.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidDate, err)
	}
	e, err := model.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidDate, err)
	}
	return o.Run(ctx, s, e)
}

// Run walks [start, end] by one day and returns the items in ascending date
// order. A start after end yields no items. A cancelled ctx aborts the run
// with ctx.Err() and no items.
func (o *Orchestrator) Run(ctx context.Context, start, end time.Time) ([]view.Item, error) {
	start, end = model.Truncate(start), model.Truncate(end)
	total := model.DaysInclusive(start, end)
	items := make([]view.Item, 0, total)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := o.fetcher.Fetch(ctx, model.FormatDate(d))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := view.BuildItem(rec)
		items = append(items, item)
		if o.progress != nil && ctx.Err() == nil {
			o.progress(len(items)-1, total, item)
		}
	}
	return items, nil
}
