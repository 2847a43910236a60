package display

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tokenaudit/tokenaudit/pkg/aggregator"
)

// csvFormatter renders the report as RFC 4180 CSV. Numbers are written
// without separators so spreadsheets parse them as numeric cells.
type csvFormatter struct{}

// Format implements Formatter.Format.
func (f *csvFormatter) Format(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	header := []string{
		"key", "input_tokens", "output_tokens",
		"cache_creation_tokens", "cache_read_tokens",
		"total_tokens", "cost_usd",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, b := range report.Buckets {
		if err := cw.Write(csvRow(b)); err != nil {
			return err
		}
	}

	if len(report.Buckets) > 0 {
		total := csvRow(report.Total)
		total[0] = "total"
		if err := cw.Write(total); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvRow renders one bucket as CSV fields.
func csvRow(b aggregator.Bucket) []string {
	return []string{
		b.Key,
		strconv.FormatInt(b.Usage.InputTokens, 10),
		strconv.FormatInt(b.Usage.OutputTokens, 10),
		strconv.FormatInt(b.Usage.CacheCreationTokens, 10),
		strconv.FormatInt(b.Usage.CacheReadTokens, 10),
		strconv.FormatInt(b.TotalTokens, 10),
		strconv.FormatFloat(b.CostUSD, 'f', 6, 64),
	}
}
