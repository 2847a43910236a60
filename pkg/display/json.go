package display

import (
	"encoding/json"
	"io"

	"github.com/tokenaudit/tokenaudit/pkg/aggregator"
)

// jsonFormatter renders the report as indented JSON for piping.
type jsonFormatter struct{}

// Format implements Formatter.Format.
func (f *jsonFormatter) Format(w io.Writer, report Report) error {
	if report.Buckets == nil {
		// An empty report is valid output, not an error; emit an empty
		// array rather than null for downstream consumers.
		report.Buckets = []aggregator.Bucket{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
