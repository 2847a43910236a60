package pricing

import "errors"

// Common errors returned by the pricing package.
var (
	// ErrNoFallbackRule is returned when the rate table lacks the
	// designated fallback entry.
	ErrNoFallbackRule = errors.New("pricing table has no fallback rule")

	// ErrUnknownCostMode is returned for an unrecognized cost mode.
	ErrUnknownCostMode = errors.New("cost mode must be auto, calculate, or display")
)
