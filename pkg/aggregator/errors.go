package aggregator

import "errors"

// Common errors returned by the aggregator package.
var (
	// ErrUnknownDimension is returned for an unrecognized grouping axis.
	ErrUnknownDimension = errors.New("dimension must be day, week, month, session, model, or project")
)
