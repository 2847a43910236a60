package logger

import (
	"fmt"
	"sort"
	"sync"
)

// Warnings collects recoverable diagnostics during a run so they can be
// reported once, after the output table, instead of interleaved with it.
// Identical messages are counted rather than repeated.
//
// Thread-safety: all methods are safe for concurrent use; parser workers
// add warnings from multiple goroutines.
type Warnings struct {
	mu     sync.Mutex
	counts map[string]int
	order  []string
}

// NewWarnings creates an empty warning collector.
func NewWarnings() *Warnings {
	return &Warnings{counts: make(map[string]int)}
}

// Addf records a formatted warning message.
func (w *Warnings) Addf(format string, args ...interface{}) {
	w.Add(fmt.Sprintf(format, args...))
}

// Add records a warning message.
func (w *Warnings) Add(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, seen := w.counts[msg]; !seen {
		w.order = append(w.order, msg)
	}
	w.counts[msg]++
}

// Len returns the number of distinct warnings collected.
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Messages returns the distinct warnings in first-seen order, each suffixed
// with its repeat count when greater than one.
func (w *Warnings) Messages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	msgs := make([]string, 0, len(w.order))
	for _, m := range w.order {
		if n := w.counts[m]; n > 1 {
			msgs = append(msgs, fmt.Sprintf("%s (x%d)", m, n))
		} else {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// Flush emits every collected warning through the logger and resets the
// collector. Messages are emitted in first-seen order.
func (w *Warnings) Flush(log Logger) {
	for _, msg := range w.Messages() {
		log.Warn(msg)
	}

	w.mu.Lock()
	w.counts = make(map[string]int)
	w.order = nil
	w.mu.Unlock()
}

// Sorted returns the distinct warnings sorted lexically. Used by tests that
// need deterministic comparison regardless of worker scheduling.
func (w *Warnings) Sorted() []string {
	msgs := w.Messages()
	sort.Strings(msgs)
	return msgs
}
