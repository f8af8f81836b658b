package report

import (
	"encoding/json"
	"io"
)

// JSONWriter renders the report as a single JSON document.
type JSONWriter struct {
	Indent bool
}

// Format implements Writer.
func (*JSONWriter) Format() string { return "json" }

// Write implements Writer.
func (j *JSONWriter) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}
