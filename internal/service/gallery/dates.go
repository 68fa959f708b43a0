package gallery

import (
	"errors"
	"fmt"
	"time"

	"apodgallery/internal/model"
)

// ArchiveStart is the first day of the image-of-the-day archive.
var ArchiveStart = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

var (
	ErrBeforeArchive = errors.New("date is before the start of the archive")
	ErrInFuture      = errors.New("date is after today")
	ErrRangeTooLong  = errors.New("date range is too long")
)

// DefaultRange returns the trailing window of days days ending on today.
func DefaultRange(now time.Time, days int) (string, string) {
	if days < 1 {
		days = 1
	}
	end := model.Truncate(now)
	start := end.AddDate(0, 0, -(days - 1))
	if start.Before(ArchiveStart) {
		start = ArchiveStart
	}
	return model.FormatDate(start), model.FormatDate(end)
}

// ValidateRange applies the date input rules: both bounds parse, lie between
// the archive start and today, and span at most maxDays days. A start after
// end is allowed and yields an empty gallery.
func ValidateRange(start, end string, now time.Time, maxDays int) error {
	s, err := model.ParseDate(start)
	if err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidDate, err)
	}
	e, err := model.ParseDate(end)
	if err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidDate, err)
	}
	today := model.Truncate(now)
	for _, d := range []time.Time{s, e} {
		if d.Before(ArchiveStart) {
			return fmt.Errorf("%w: %s", ErrBeforeArchive, model.FormatDate(d))
		}
		if d.After(today) {
			return fmt.Errorf("%w: %s", ErrInFuture, model.FormatDate(d))
		}
	}
	if maxDays > 0 && model.DaysInclusive(s, e) > maxDays {
		return fmt.Errorf("%w: at most %d days", ErrRangeTooLong, maxDays)
	}
	return nil
}
