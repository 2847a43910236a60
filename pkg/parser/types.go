// Package parser provides streaming JSONL ingestion for Claude Code
// usage logs. It reads one line at a time with a bounded buffer, decodes
// each line into a typed record, and filters out records that cannot
// contribute to accounting.
//
// The parser handles malformed lines gracefully: log files are append-only
// and a partially flushed final line is an expected, benign condition, so
// bad lines are counted and skipped rather than failing the file.
package parser

import (
	"encoding/json"
	"time"
)

// Kind discriminates log record types. Unknown discriminator values map to
// KindOther so future log additions stay safely ignorable.
type Kind string

const (
	// KindAssistant is an assistant turn; the only kind carrying usage.
	KindAssistant Kind = "assistant"

	// KindUser is a user turn.
	KindUser Kind = "user"

	// KindSystem is an internal system event.
	KindSystem Kind = "system"

	// KindSummary is a result summary record.
	KindSummary Kind = "summary"

	// KindOther is any unrecognized record type.
	KindOther Kind = "other"
)

// SyntheticModel is the placeholder model identifier Claude Code emits for
// internal bookkeeping turns. Those turns carry no real cost and must be
// filtered, not priced.
const SyntheticModel = "<synthetic>"

// Usage holds the four token counters of a single API response.
type Usage struct {
	InputTokens         int64 `json:"input_tokens"`
	OutputTokens        int64 `json:"output_tokens"`
	CacheCreationTokens int64 `json:"cache_creation_tokens"`
	CacheReadTokens     int64 `json:"cache_read_tokens"`
}

// Total returns the sum of all four counters.
func (u Usage) Total() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheCreationTokens + u.CacheReadTokens
}

// IsZero reports whether every counter is exactly zero. All-zero usage
// records are billing-anomaly artifacts, not real events.
func (u Usage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 &&
		u.CacheCreationTokens == 0 && u.CacheReadTokens == 0
}

// Record is one parsed, billable line from a log file. The parser only
// emits assistant records that survived filtering; other kinds are counted
// in Stats and dropped.
type Record struct {
	Kind      Kind
	MessageID string
	RequestID string
	SessionID string
	Model     string
	Timestamp time.Time // UTC
	Usage     Usage
	CostUSD   float64 // record-level cost, 0 when absent
}

// Stats summarizes one file scan.
type Stats struct {
	// Lines is the number of non-empty lines seen.
	Lines int

	// Emitted is the number of records passed to the callback.
	Emitted int

	// Malformed is the number of lines that failed to decode.
	Malformed int

	// Skipped is the number of well-formed records without usage
	// (user turns, system events, summaries).
	Skipped int

	// Filtered is the number of assistant records dropped by the
	// synthetic-model and zero-usage filters.
	Filtered int
}

// rawRecord maps the subset of the JSONL schema the parser cares about.
// Nested objects are pointers so their absence is detectable.
type rawRecord struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	SessionID string   `json:"sessionId"`
	RequestID string   `json:"requestId"`
	CostUSD   *float64 `json:"costUSD"`
	Message   *struct {
		ID    string `json:"id"`
		Model string `json:"model"`
		Usage *struct {
			InputTokens         int64 `json:"input_tokens"`
			OutputTokens        int64 `json:"output_tokens"`
			CacheCreationInput  int64 `json:"cache_creation_input_tokens"`
			CacheReadInput      int64 `json:"cache_read_input_tokens"`
		} `json:"usage"`
	} `json:"message"`
}

// kindOf maps a raw discriminator value to a Kind.
func kindOf(t string) Kind {
	switch t {
	case "assistant":
		return KindAssistant
	case "user":
		return KindUser
	case "system":
		return KindSystem
	case "summary", "result":
		return KindSummary
	default:
		return KindOther
	}
}

// timestampLayouts are tried in order. Claude Code normally writes
// RFC3339Nano but older versions used a fixed-millisecond layout.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
}

// parseTimestamp decodes a log timestamp into UTC.
func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// decodeLine is a test seam around json.Unmarshal for a single line.
func decodeLine(line []byte, rec *rawRecord) error {
	return json.Unmarshal(line, rec)
}
