// Package report renders extraction and analysis results to the
// supported output formats.
package report

import (
	"sort"
	"time"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

// Report is the format-independent payload a writer renders.
type Report struct {
	Title       string              `json:"title"`
	GeneratedAt time.Time           `json:"generated_at"`
	Source      string              `json:"source,omitempty"`
	Records     []map[string]any    `json:"records"`
	Patterns    []transform.Pattern `json:"patterns,omitempty"`
	Suggestions []refine.Suggestion `json:"suggestions,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`

	// Columns fixes the column order for tabular formats. When empty,
	// writers derive it from the record keys in sorted order.
	Columns []string `json:"-"`
}

// columns returns the effective column order.
func (r *Report) columns() []string {
	if len(r.Columns) > 0 {
		return r.Columns
	}
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range r.Records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
