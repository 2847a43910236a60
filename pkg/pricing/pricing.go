// Package pricing maps model identifiers to rate table entries and computes
// per-event cost.
//
// The rate table is embedded at build time and loaded once at startup into
// an immutable value that is passed around explicitly; nothing in this
// package holds mutable global state, so cost computation is a pure
// function of its inputs.
package pricing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed pricing.json
var defaultTableJSON []byte

// fallbackKey designates the table entry used for unrecognized models.
const fallbackKey = "default"

// Rule is one rate table entry. Rates are USD per million tokens; the four
// categories differ by roughly an order of magnitude.
type Rule struct {
	ModelSubstring string
	InputRate      float64 `json:"input"`
	OutputRate     float64 `json:"output"`
	CacheWriteRate float64 `json:"cache_write"`
	CacheReadRate  float64 `json:"cache_read"`
}

// Table is an immutable set of pricing rules ordered most-specific-first.
type Table struct {
	rules    []Rule // sorted by descending substring length
	fallback Rule
}

// LoadDefault parses the embedded rate table.
func LoadDefault() (Table, error) {
	return parseTable(defaultTableJSON)
}

// parseTable builds a Table from a JSON object keyed by model substring.
func parseTable(data []byte) (Table, error) {
	var raw map[string]Rule
	if err := json.Unmarshal(data, &raw); err != nil {
		return Table{}, fmt.Errorf("failed to parse pricing table: %w", err)
	}

	fallback, ok := raw[fallbackKey]
	if !ok {
		return Table{}, ErrNoFallbackRule
	}
	fallback.ModelSubstring = fallbackKey
	delete(raw, fallbackKey)

	rules := make([]Rule, 0, len(raw))
	for substr, rule := range raw {
		rule.ModelSubstring = substr
		rules = append(rules, rule)
	}

	// Longer, more qualified substrings match before shorter generic
	// ones, so a dated model variant beats its family default. Ties
	// break lexically for determinism.
	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i].ModelSubstring, rules[j].ModelSubstring
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return Table{rules: rules, fallback: fallback}, nil
}

// Resolve returns the most specific rule whose substring occurs in the
// model identifier. matched is false when the fallback rule was used;
// accounting never fails for an unrecognized model, it only degrades to an
// approximate rate.
func (t Table) Resolve(model string) (rule Rule, matched bool) {
	for _, r := range t.rules {
		if strings.Contains(model, r.ModelSubstring) {
			return r, true
		}
	}
	return t.fallback, false
}

// Fallback returns the designated fallback rule.
func (t Table) Fallback() Rule {
	return t.fallback
}

// Len returns the number of non-fallback rules.
func (t Table) Len() int {
	return len(t.rules)
}

// Cost prices the four usage counters under this rule.
func (r Rule) Cost(input, output, cacheWrite, cacheRead int64) float64 {
	const perMillion = 1_000_000
	return float64(input)*r.InputRate/perMillion +
		float64(output)*r.OutputRate/perMillion +
		float64(cacheWrite)*r.CacheWriteRate/perMillion +
		float64(cacheRead)*r.CacheReadRate/perMillion
}
