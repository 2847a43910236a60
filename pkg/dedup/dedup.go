// Package dedup collapses the multiple physical records of one logical
// billed event into a single usage event.
//
// Claude Code streams one record per content fragment of a response
// (thinking, text, tool use); all fragments share the message ID and carry
// near-identical input and cache counters, but the output counter is
// monotonically non-decreasing across fragments and only the final fragment
// holds the true total. Counting fragments independently inflates output
// totals by 2-5x.
//
// The rule is last-write-wins, not max-aggregation: the most recently read
// record for a message ID is trusted, because a mid-stream model switch can
// make the apparent maximum belong to a different logical turn. This
// assumes records are observed in true append order within each file; the
// parser guarantees that, and callers must not reorder records between
// parsing and deduplication.
package dedup

import (
	"time"

	"github.com/tokenaudit/tokenaudit/pkg/discovery"
	"github.com/tokenaudit/tokenaudit/pkg/parser"
)

// UsageEvent is one deduplicated, billable occurrence. Immutable once
// emitted to the aggregator.
type UsageEvent struct {
	SessionID   string
	ProjectPath string
	Model       string
	Timestamp   time.Time // UTC; zone conversion happens at bucketing
	Usage       parser.Usage
	CostUSD     float64 // record-level cost until the calculator runs
	Origin      discovery.Origin
}

// SessionSet accumulates the records of one session, from its primary file
// and any satellite files, and yields exactly one UsageEvent per distinct
// message ID.
//
// Not safe for concurrent use; the report engine feeds each session's
// records from a single goroutine.
type SessionSet struct {
	keyed  map[string]int // message ID -> index into events
	events []UsageEvent
}

// NewSessionSet creates an empty session accumulator.
func NewSessionSet() *SessionSet {
	return &SessionSet{keyed: make(map[string]int)}
}

// Observe folds one record into the set, in file read order.
//
// A record without a message ID cannot be deduplicated and is kept as-is.
// Otherwise the latest record for a message ID replaces any earlier one,
// with a single tie-break: a primary-file record is never displaced by a
// satellite-file record for the same message ID. The same ID appearing in
// both namespaces means discovery mis-attributed a file, but the primary
// copy is still the right one to bill.
func (s *SessionSet) Observe(rec parser.Record, origin discovery.Origin, sessionID, projectPath string) {
	if rec.SessionID != "" {
		sessionID = rec.SessionID
	}

	event := UsageEvent{
		SessionID:   sessionID,
		ProjectPath: projectPath,
		Model:       rec.Model,
		Timestamp:   rec.Timestamp,
		Usage:       rec.Usage,
		CostUSD:     rec.CostUSD,
		Origin:      origin,
	}

	if rec.MessageID == "" {
		s.events = append(s.events, event)
		return
	}

	if idx, seen := s.keyed[rec.MessageID]; seen {
		if s.events[idx].Origin == discovery.OriginPrimary && origin == discovery.OriginSatellite {
			return
		}
		s.events[idx] = event
		return
	}

	s.keyed[rec.MessageID] = len(s.events)
	s.events = append(s.events, event)
}

// Len returns the current number of distinct events.
func (s *SessionSet) Len() int {
	return len(s.events)
}

// Events returns the deduplicated events in first-observed order.
// The returned slice must not be modified after further Observe calls.
func (s *SessionSet) Events() []UsageEvent {
	return s.events
}
