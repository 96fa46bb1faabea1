package google

import (
	"errors"
	"fmt"
	"strings"

	"fairdash/internal/core"
	"fairdash/internal/source"
)

// parseSummarySheet converts a values matrix (as returned by the Sheets API)
// into the latest summary row. The first row holds column names; the last row
// with any non-blank cell is the snapshot. Cells past the end of a short row
// are absent from the result.
func parseSummarySheet(values [][]interface{}) (core.RawRow, error) {
	if len(values) == 0 {
		return nil, source.ErrNoRows
	}

	headers := toStrings(values[0])
	if !hasAny(headers) {
		return nil, errors.New("summary sheet header row is empty")
	}

	last := -1
	for i := len(values) - 1; i >= 1; i-- {
		if hasAny(toStrings(values[i])) {
			last = i
			break
		}
	}
	if last == -1 {
		return nil, source.ErrNoRows
	}

	row := make(core.RawRow, len(headers))
	data := values[last]
	for col, name := range headers {
		name = normalizeHeader(name)
		if name == "" || col >= len(data) {
			continue
		}
		v := data[col]
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			v = nil
		}
		row[name] = v
	}
	return row, nil
}

// normalizeHeader accepts "Total Revenue", "total_revenue" or "TOTAL REVENUE".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func hasAny(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
