package entity

import (
	"math"
	"strconv"
	"strings"
)

// PriceTable is the full daily price history of one symbol, in on-disk order.
// Column names are kept exactly as they appear in the file header.
type PriceTable struct {
	Symbol  string
	Columns []string
	Records [][]string
}

// Row is a single price table row keyed by column name.
// Values are float64 for numeric cells, nil for empty cells and string otherwise.
type Row map[string]any

// Len returns the number of data rows.
func (t PriceTable) Len() int { return len(t.Records) }

// LowerColumns returns the column names lowercased, in header order.
func (t PriceTable) LowerColumns() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = strings.ToLower(c)
	}
	return out
}

// ColumnIndex returns the index of the column with exactly the given name, or -1.
func (t PriceTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Numbers returns the numeric values of the named column, skipping empty and
// non-numeric cells. The second return value is false if the column does not exist.
func (t PriceTable) Numbers(column string) ([]float64, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, 0, len(t.Records))
	for _, rec := range t.Records {
		if idx >= len(rec) {
			continue
		}
		if v, ok := parseNumber(rec[idx]); ok {
			out = append(out, v)
		}
	}
	return out, true
}

// Tail returns the last n rows as lowercase-keyed Row maps, preserving order.
// n larger than the table returns every row; n <= 0 returns none.
func (t PriceTable) Tail(n int) []Row {
	if n <= 0 {
		return []Row{}
	}
	start := len(t.Records) - n
	if start < 0 {
		start = 0
	}

	keys := t.LowerColumns()
	out := make([]Row, 0, len(t.Records)-start)
	for _, rec := range t.Records[start:] {
		row := make(Row, len(keys))
		for i, k := range keys {
			if i >= len(rec) {
				row[k] = nil
				continue
			}
			row[k] = cellValue(rec[i])
		}
		out = append(out, row)
	}
	return out
}

func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, ok := parseNumber(s); ok {
		return v
	}
	return s
}

// parseNumber parses a finite float; NaN and Inf are treated as missing.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
