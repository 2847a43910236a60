package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const (
	// initialBufSize is the starting scanner buffer size.
	initialBufSize = 64 * 1024

	// MaxLineBytes is the maximum allowed line length. Session files can
	// contain large inline tool output, so the cap is generous, but it is
	// still a cap: memory use must not scale with file size.
	MaxLineBytes = 10 * 1024 * 1024
)

// EmitFunc receives each billable record in file order. Returning a non-nil
// error aborts the scan and propagates the error to the caller; this is how
// context cancellation reaches the scanner.
type EmitFunc func(Record) error

// Parser reads log files and emits billable records.
type Parser interface {
	// ScanFile streams one JSONL file through fn.
	//
	// Returns scan statistics and an error only for I/O failures or an
	// error returned by fn. Malformed lines never produce an error.
	//
	// Thread-safety: safe to call concurrently with different files.
	ScanFile(path string, fn EmitFunc) (Stats, error)

	// ScanReader streams JSONL from r through fn. Behaves like ScanFile.
	ScanReader(r io.Reader, fn EmitFunc) (Stats, error)
}

// jsonlParser implements the Parser interface.
type jsonlParser struct{}

// New creates a new Parser.
func New() Parser {
	return &jsonlParser{}
}

// ScanFile implements Parser.ScanFile.
func (p *jsonlParser) ScanFile(path string, fn EmitFunc) (Stats, error) {
	f, err := os.Open(path) // nolint:gosec
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return p.ScanReader(f, fn)
}

// ScanReader implements Parser.ScanReader.
func (p *jsonlParser) ScanReader(r io.Reader, fn EmitFunc) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialBufSize), MaxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		var raw rawRecord
		if err := decodeLine(line, &raw); err != nil {
			stats.Malformed++
			continue
		}

		rec, ok, err := billable(raw)
		if err != nil {
			stats.Malformed++
			continue
		}
		if !ok {
			if raw.Type == "assistant" {
				stats.Filtered++
			} else {
				stats.Skipped++
			}
			continue
		}

		stats.Emitted++
		if err := fn(rec); err != nil {
			return stats, err
		}
	}

	if err := scanner.Err(); err != nil {
		// A torn final line shows up here for in-progress logs; the
		// records already emitted are still good.
		stats.Malformed++
		return stats, fmt.Errorf("scan aborted: %w", err)
	}

	return stats, nil
}

// billable converts a raw record into a Record, applying the parse-time
// filters. ok is false for records that carry no billable usage; err is
// non-nil only when a record that should carry usage is structurally broken.
func billable(raw rawRecord) (Record, bool, error) {
	if kindOf(raw.Type) != KindAssistant {
		return Record{}, false, nil
	}

	if raw.Message == nil || raw.Message.Usage == nil {
		return Record{}, false, nil
	}

	// Synthetic placeholder models mark internal bookkeeping turns.
	if raw.Message.Model == SyntheticModel {
		return Record{}, false, nil
	}

	usage := Usage{
		InputTokens:         raw.Message.Usage.InputTokens,
		OutputTokens:        raw.Message.Usage.OutputTokens,
		CacheCreationTokens: raw.Message.Usage.CacheCreationInput,
		CacheReadTokens:     raw.Message.Usage.CacheReadInput,
	}
	if usage.IsZero() {
		return Record{}, false, nil
	}

	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return Record{}, false, fmt.Errorf("bad timestamp %q: %w", raw.Timestamp, err)
	}

	rec := Record{
		Kind:      KindAssistant,
		MessageID: raw.Message.ID,
		RequestID: raw.RequestID,
		SessionID: raw.SessionID,
		Model:     raw.Message.Model,
		Timestamp: ts,
		Usage:     usage,
	}
	if raw.CostUSD != nil {
		rec.CostUSD = *raw.CostUSD
	}

	return rec, true, nil
}
