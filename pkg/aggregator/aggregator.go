package aggregator

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tokenaudit/tokenaudit/pkg/dedup"
	"github.com/tokenaudit/tokenaudit/pkg/timeframe"
)

// Aggregator accumulates usage events into buckets.
//
// Thread-safety: Add may be called from multiple goroutines; Results must
// only be called after all Add calls have completed.
type Aggregator struct {
	dim   Dimension
	loc   *time.Location
	label LabelFunc

	mu      sync.Mutex
	buckets map[string]*Bucket
	total   Bucket
}

// New creates an aggregator for one dimension. loc is the zone buckets are
// computed in; label may be nil when the dimension is not DimSession.
func New(dim Dimension, loc *time.Location, label LabelFunc) *Aggregator {
	if label == nil {
		label = func(sessionID string) string { return sessionID }
	}
	return &Aggregator{
		dim:     dim,
		loc:     loc,
		label:   label,
		buckets: make(map[string]*Bucket),
		total:   Bucket{Key: "total"},
	}
}

// Add folds one event into its bucket and the grand total.
func (a *Aggregator) Add(e dedup.UsageEvent) {
	key := a.key(e)

	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buckets[key]
	if !ok {
		b = &Bucket{Key: key}
		a.buckets[key] = b
	}
	accumulate(b, e)
	accumulate(&a.total, e)
}

// Results finalizes the fold: buckets sorted by key ascending for temporal
// dimensions and by cost descending otherwise, plus the grand total.
func (a *Aggregator) Results() ([]Bucket, Bucket) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buckets := lo.Map(lo.Values(a.buckets), func(b *Bucket, _ int) Bucket {
		b.TotalTokens = b.Usage.Total()
		return *b
	})

	if a.dim.IsTemporal() {
		sort.Slice(buckets, func(i, j int) bool {
			return buckets[i].Key < buckets[j].Key
		})
	} else {
		sort.Slice(buckets, func(i, j int) bool {
			if buckets[i].CostUSD != buckets[j].CostUSD {
				return buckets[i].CostUSD > buckets[j].CostUSD
			}
			return buckets[i].Key < buckets[j].Key
		})
	}

	total := a.total
	total.TotalTokens = total.Usage.Total()
	return buckets, total
}

// key computes the grouping key for an event.
func (a *Aggregator) key(e dedup.UsageEvent) string {
	switch a.dim {
	case DimDay:
		return timeframe.BucketKey(e.Timestamp, timeframe.GranularityDay, a.loc)
	case DimWeek:
		return timeframe.BucketKey(e.Timestamp, timeframe.GranularityWeek, a.loc)
	case DimMonth:
		return timeframe.BucketKey(e.Timestamp, timeframe.GranularityMonth, a.loc)
	case DimSession:
		return a.label(e.SessionID)
	case DimModel:
		return e.Model
	case DimProject:
		return e.ProjectPath
	default:
		return ""
	}
}

// accumulate adds an event's counters and cost to a bucket.
func accumulate(b *Bucket, e dedup.UsageEvent) {
	b.Usage.InputTokens += e.Usage.InputTokens
	b.Usage.OutputTokens += e.Usage.OutputTokens
	b.Usage.CacheCreationTokens += e.Usage.CacheCreationTokens
	b.Usage.CacheReadTokens += e.Usage.CacheReadTokens
	b.CostUSD += e.CostUSD
	b.Records++
}
