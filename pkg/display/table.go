package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tokenaudit/tokenaudit/pkg/aggregator"
)

// tableFormatter renders an aligned text table.
type tableFormatter struct {
	config Config
}

// Format implements Formatter.Format.
func (f *tableFormatter) Format(w io.Writer, report Report) error {
	header := []string{
		keyHeader(report.Dimension),
		"Input", "Output", "Cache Write", "Cache Read", "Total Tokens", "Cost (USD)",
	}

	rows := make([][]string, 0, len(report.Buckets)+1)
	for _, b := range report.Buckets {
		rows = append(rows, bucketRow(b))
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No usage records in range")
		return err
	}

	total := bucketRow(report.Total)
	total[0] = "Total"
	rows = append(rows, total)

	return f.writeTable(w, header, rows)
}

// bucketRow renders one bucket as table cells.
func bucketRow(b aggregator.Bucket) []string {
	return []string{
		b.Key,
		formatNumber(b.Usage.InputTokens),
		formatNumber(b.Usage.OutputTokens),
		formatNumber(b.Usage.CacheCreationTokens),
		formatNumber(b.Usage.CacheReadTokens),
		formatNumber(b.TotalTokens),
		fmt.Sprintf("$%.2f", b.CostUSD),
	}
}

// keyHeader returns the key column title for a dimension.
func keyHeader(dim aggregator.Dimension) string {
	switch dim {
	case aggregator.DimWeek:
		return "Week"
	case aggregator.DimMonth:
		return "Month"
	case aggregator.DimSession:
		return "Session"
	case aggregator.DimModel:
		return "Model"
	case aggregator.DimProject:
		return "Project"
	default:
		return "Date"
	}
}

// writeTable writes the header, a separator, and all rows with columns
// padded to the widest cell. The numeric columns are right-aligned.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	return nil
}

// writeRow writes one padded table row. Column 0 is left-aligned, the rest
// right-aligned.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	for i, cell := range cells {
		if i > 0 {
			if _, err := fmt.Fprint(w, gap); err != nil {
				return err
			}
		}

		align := "-"
		if i > 0 {
			align = ""
		}
		if _, err := fmt.Fprintf(w, "%"+align+strconv.Itoa(widths[i])+"s", cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// formatNumber renders an integer with thousands separators.
func formatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
