package pricing

import (
	"sort"
	"sync"

	"github.com/tokenaudit/tokenaudit/pkg/dedup"
)

// CostMode selects how per-event cost is derived.
type CostMode string

const (
	// CostModeAuto trusts a positive record-level cost when present and
	// computes from the rate table otherwise.
	CostModeAuto CostMode = "auto"

	// CostModeCalculate always computes from the rate table.
	CostModeCalculate CostMode = "calculate"

	// CostModeDisplay only uses record-level cost values.
	CostModeDisplay CostMode = "display"
)

// ParseCostMode validates a cost mode string.
func ParseCostMode(s string) (CostMode, error) {
	switch CostMode(s) {
	case CostModeAuto, CostModeCalculate, CostModeDisplay:
		return CostMode(s), nil
	case "":
		return CostModeAuto, nil
	default:
		return "", ErrUnknownCostMode
	}
}

// Calculator prices usage events against a table. It remembers every model
// that fell through to the fallback rule so the caller can report them once
// in the warning summary instead of per record.
//
// Thread-safety: Price and Apply are safe for concurrent use.
type Calculator struct {
	table Table
	mode  CostMode

	mu      sync.Mutex
	unknown map[string]bool
}

// NewCalculator creates a calculator over an immutable table.
func NewCalculator(table Table, mode CostMode) *Calculator {
	return &Calculator{
		table:   table,
		mode:    mode,
		unknown: make(map[string]bool),
	}
}

// Price returns the cost in USD for a single event. Deterministic for fixed
// table, mode, and event.
func (c *Calculator) Price(e dedup.UsageEvent) float64 {
	switch c.mode {
	case CostModeDisplay:
		return e.CostUSD
	case CostModeCalculate:
		return c.fromTokens(e)
	default: // auto
		if e.CostUSD > 0 {
			return e.CostUSD
		}
		return c.fromTokens(e)
	}
}

// Apply computes and sets CostUSD on every event in place.
func (c *Calculator) Apply(events []dedup.UsageEvent) {
	for i := range events {
		events[i].CostUSD = c.Price(events[i])
	}
}

// UnknownModels returns the sorted set of model identifiers that were
// priced with the fallback rule.
func (c *Calculator) UnknownModels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	models := make([]string, 0, len(c.unknown))
	for m := range c.unknown {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// fromTokens prices an event's counters, recording fallback hits.
func (c *Calculator) fromTokens(e dedup.UsageEvent) float64 {
	rule, matched := c.table.Resolve(e.Model)
	if !matched {
		c.mu.Lock()
		c.unknown[e.Model] = true
		c.mu.Unlock()
	}

	return rule.Cost(
		e.Usage.InputTokens,
		e.Usage.OutputTokens,
		e.Usage.CacheCreationTokens,
		e.Usage.CacheReadTokens,
	)
}
