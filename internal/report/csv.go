package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVWriter renders the records as a CSV table with a header row.
// Patterns and warnings do not fit the format and are omitted.
type CSVWriter struct{}

// Format implements Writer.
func (*CSVWriter) Format() string { return "csv" }

// Write implements Writer.
func (*CSVWriter) Write(w io.Writer, r *Report) error {
	cols := r.columns()
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, rec := range r.Records {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = cellString(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// cellString formats a record value for tabular output. Nil renders
// empty rather than "<nil>".
func cellString(v any) string {
	if v == nil {
		return ""
	}
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
