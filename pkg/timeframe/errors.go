package timeframe

import "errors"

// Common errors returned by the timeframe package.
var (
	// ErrBadRelativeRange is returned for a malformed "last N" shorthand.
	ErrBadRelativeRange = errors.New(`relative range must look like "7d", "4w", or "3m"`)

	// ErrBadDate is returned for a date that is not YYYY-MM-DD.
	ErrBadDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvertedRange is returned when until precedes since.
	ErrInvertedRange = errors.New("until date precedes since date")
)
