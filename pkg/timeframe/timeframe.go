// Package timeframe converts UTC log timestamps into a caller-selected
// civil time zone and computes calendar bucket keys and query windows.
//
// Every comparison and bucket boundary is computed after zone conversion.
// An event stamped 23:50 UTC can belong to a different calendar day
// locally than its UTC date suggests; filtering before converting silently
// drops or mis-buckets such events.
package timeframe

import (
	"fmt"
	"time"
)

// Granularity selects a calendar bucket size.
type Granularity string

const (
	// GranularityDay buckets by local calendar date.
	GranularityDay Granularity = "day"

	// GranularityWeek buckets by ISO week.
	GranularityWeek Granularity = "week"

	// GranularityMonth buckets by local calendar month.
	GranularityMonth Granularity = "month"
)

// LoadZone resolves an IANA zone name, with "" meaning the system local
// zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// BucketKey returns the bucket key for a timestamp at the given
// granularity, computed in loc.
func BucketKey(t time.Time, g Granularity, loc *time.Location) string {
	local := t.In(loc)
	switch g {
	case GranularityWeek:
		year, week := local.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return local.Format("2006-01")
	default:
		return local.Format("2006-01-02")
	}
}

// Midnight truncates a timestamp to the preceding local midnight.
func Midnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Window is a half-open time range [Since, Until). A zero boundary is
// unbounded on that side.
type Window struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window. The start is
// inclusive: an event exactly at the anchoring midnight qualifies, one
// second earlier does not.
func (w Window) Contains(t time.Time) bool {
	if !w.Since.IsZero() && t.Before(w.Since) {
		return false
	}
	if !w.Until.IsZero() && !t.Before(w.Until) {
		return false
	}
	return true
}

// IsZero reports whether the window is unbounded on both sides.
func (w Window) IsZero() bool {
	return w.Since.IsZero() && w.Until.IsZero()
}

// ParseRelative builds a window from a "last N" shorthand: "7d", "4w",
// "3m". The window is anchored to local midnight N days, weeks, or months
// before the current local midnight. It is a calendar window, never a
// rolling N x 24h one.
func ParseRelative(s string, now time.Time, loc *time.Location) (Window, error) {
	if len(s) < 2 {
		return Window{}, fmt.Errorf("%w: %q", ErrBadRelativeRange, s)
	}

	unit := s[len(s)-1]
	var n int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &n); err != nil || n <= 0 {
		return Window{}, fmt.Errorf("%w: %q", ErrBadRelativeRange, s)
	}

	anchor := Midnight(now, loc)
	var since time.Time
	switch unit {
	case 'd':
		since = anchor.AddDate(0, 0, -n)
	case 'w':
		since = anchor.AddDate(0, 0, -7*n)
	case 'm':
		since = anchor.AddDate(0, -n, 0)
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrBadRelativeRange, s)
	}

	return Window{Since: since}, nil
}

// ParseDateRange builds a window from explicit since/until dates in
// "2006-01-02" form, interpreted in loc. Either bound may be empty. The
// until date is inclusive: the window extends to the following midnight.
func ParseDateRange(since, until string, loc *time.Location) (Window, error) {
	var w Window

	if since != "" {
		t, err := time.ParseInLocation("2006-01-02", since, loc)
		if err != nil {
			return Window{}, fmt.Errorf("%w: %q", ErrBadDate, since)
		}
		w.Since = t
	}

	if until != "" {
		t, err := time.ParseInLocation("2006-01-02", until, loc)
		if err != nil {
			return Window{}, fmt.Errorf("%w: %q", ErrBadDate, until)
		}
		w.Until = t.AddDate(0, 0, 1)
	}

	if !w.Since.IsZero() && !w.Until.IsZero() && w.Until.Before(w.Since) {
		return Window{}, ErrInvertedRange
	}

	return w, nil
}
