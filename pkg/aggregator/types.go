// Package aggregator folds deduplicated, priced usage events into group
// totals along a caller-selected dimension.
//
// Folding is plain summation, commutative and associative, so events may
// arrive in any order; per-file ingestion can run in parallel without
// affecting totals.
//
// Example usage:
//
//	agg := aggregator.New(aggregator.DimDay, loc, nil)
//	for _, e := range events {
//	    agg.Add(e)
//	}
//	buckets, total := agg.Results()
package aggregator

import (
	"fmt"

	"github.com/tokenaudit/tokenaudit/pkg/parser"
)

// Dimension selects the grouping axis for a report.
type Dimension string

const (
	// DimDay groups by local calendar date.
	DimDay Dimension = "day"

	// DimWeek groups by ISO year-week.
	DimWeek Dimension = "week"

	// DimMonth groups by local calendar month.
	DimMonth Dimension = "month"

	// DimSession groups by session display label.
	DimSession Dimension = "session"

	// DimModel groups by raw model identifier.
	DimModel Dimension = "model"

	// DimProject groups by resolved project path.
	DimProject Dimension = "project"
)

// ParseDimension validates a dimension string.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimDay, DimWeek, DimMonth, DimSession, DimModel, DimProject:
		return Dimension(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
	}
}

// IsTemporal reports whether the dimension is a calendar axis. Temporal
// buckets sort by key ascending; the rest sort by cost descending.
func (d Dimension) IsTemporal() bool {
	switch d {
	case DimDay, DimWeek, DimMonth:
		return true
	default:
		return false
	}
}

// Bucket is one output row: the totals of every event sharing a key.
type Bucket struct {
	// Key meaning depends on the dimension: ISO date, ISO year-week,
	// YYYY-MM, session label, model name, or project path.
	Key string `json:"key"`

	// Usage holds the summed token counters.
	Usage parser.Usage `json:"usage"`

	// TotalTokens is the sum of the four counters.
	TotalTokens int64 `json:"total_tokens"`

	// CostUSD is the summed cost.
	CostUSD float64 `json:"cost_usd"`

	// Records is the number of events folded in.
	Records int `json:"records"`
}

// LabelFunc resolves a session identifier to a display label. Only
// consulted for DimSession.
type LabelFunc func(sessionID string) string
