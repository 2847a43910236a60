// Package display renders aggregation results for output.
//
// It supports a human table, JSON for piping into other tools, and CSV for
// spreadsheets. Formatters write the complete report in one pass after the
// fold has finished; nothing is emitted incrementally, so an interrupted
// run produces either a whole report or none.
package display

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tokenaudit/tokenaudit/pkg/aggregator"
)

// Format represents an output format.
type Format string

const (
	// FormatTable renders an aligned text table.
	FormatTable Format = "table"

	// FormatJSON renders structured JSON.
	FormatJSON Format = "json"

	// FormatCSV renders delimited text.
	FormatCSV Format = "csv"
)

// Report is the finished aggregation output handed to a formatter.
type Report struct {
	// Dimension is the grouping axis, used as the key column header.
	Dimension aggregator.Dimension `json:"dimension"`

	// Buckets are the sorted output rows.
	Buckets []aggregator.Bucket `json:"buckets"`

	// Total is the grand-total bucket.
	Total aggregator.Bucket `json:"total"`
}

// Config contains formatter configuration.
type Config struct {
	// Compact drops the separator row and tightens column spacing.
	Compact bool
}

// Formatter renders a report to a writer.
type Formatter interface {
	// Format writes the complete report.
	Format(w io.Writer, report Report) error
}

// New creates a formatter for the requested format. Unrecognized formats
// fall back to the table.
func New(format Format, cfg Config) Formatter {
	switch format {
	case FormatJSON:
		return &jsonFormatter{}
	case FormatCSV:
		return &csvFormatter{}
	default:
		return &tableFormatter{config: cfg}
	}
}

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV:
		return Format(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", ErrUnknownFormat
	}
}

// AutoCompact reports whether the table should render compactly: stdout
// is a terminal too narrow for the padded layout. Piped output always
// gets the full layout.
func AutoCompact() bool {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return false
	}
	return width < 100
}
