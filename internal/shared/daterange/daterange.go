// Package daterange turns optional calendar-date bounds into a half-open
// time interval that repositories apply as parameter-bound filters.
package daterange

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Layout is the accepted calendar-date format for range bounds.
const Layout = "2006-01-02"

// ErrInvalidDate is returned when a supplied bound does not parse as a
// calendar date. Callers should treat it as a client input error.
var ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

// Range is a half-open time interval [Start, End). An absent bound leaves
// that side of the interval open. The zero value matches everything.
type Range struct {
	start    time.Time
	end      time.Time // exclusive
	hasStart bool
	hasEnd   bool
}

// Parse builds a Range from optional YYYY-MM-DD strings. The end date is
// inclusive of the whole day: "2024-01-31" produces an exclusive upper
// bound of 2024-02-01T00:00:00Z.
func Parse(startDate, endDate string) (Range, error) {
	var r Range
	if startDate != "" {
		t, err := time.ParseInLocation(Layout, startDate, time.UTC)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
		}
		r.start = t
		r.hasStart = true
	}
	if endDate != "" {
		t, err := time.ParseInLocation(Layout, endDate, time.UTC)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidDate, endDate)
		}
		r.end = t.AddDate(0, 0, 1)
		r.hasEnd = true
	}
	return r, nil
}

// IsZero reports whether neither bound was supplied.
func (r Range) IsZero() bool {
	return !r.hasStart && !r.hasEnd
}

// Start returns the inclusive lower bound, if any.
func (r Range) Start() (time.Time, bool) {
	return r.start, r.hasStart
}

// End returns the exclusive upper bound, if any.
func (r Range) End() (time.Time, bool) {
	return r.end, r.hasEnd
}

// Contains reports whether t falls inside the interval.
func (r Range) Contains(t time.Time) bool {
	if r.hasStart && t.Before(r.start) {
		return false
	}
	if r.hasEnd && !t.Before(r.end) {
		return false
	}
	return true
}

// OrTrailing returns the range unchanged when any explicit bound was given,
// otherwise a trailing window of the given number of months ending at now.
// Trend metrics use this so an unfiltered request shows recent history
// while an explicit range is honored exactly.
func (r Range) OrTrailing(now time.Time, months int) Range {
	if !r.IsZero() {
		return r
	}
	return Range{start: now.AddDate(0, -months, 0), hasStart: true}
}

// Scope returns a gorm scope restricting column to the interval. Bound
// values are always passed as query parameters; only the presence or
// absence of each bound changes the query shape.
func (r Range) Scope(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.hasStart {
			db = db.Where(column+" >= ?", r.start)
		}
		if r.hasEnd {
			db = db.Where(column+" < ?", r.end)
		}
		return db
	}
}
