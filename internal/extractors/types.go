// Package extractors implements heuristic HTML table extractors for SEC
// filings: keyword-scored table location, header-synonym column guessing,
// and regex cleanup of money cells.
package extractors

import (
	"fmt"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
)

// Result is the output of one extractor run. Records are flat maps so the
// schema analyzer and pipeline can consume them directly.
type Result struct {
	// Extractor is the name of the extractor that produced the result.
	Extractor string `json:"extractor"`
	// Records holds one map per extracted row.
	Records []map[string]any `json:"records"`
	// Confidence is the table-match score normalized to [0,1].
	Confidence float64 `json:"confidence"`
	// Warnings notes rows or cells that were skipped.
	Warnings []string `json:"warnings,omitempty"`
}

// ExtractionError carries the failure type so a failed run can feed the
// refinement loop as a refine.Failure without re-classification.
type ExtractionError struct {
	Type    refine.FailureType
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewExtractionError builds a typed extraction error.
func NewExtractionError(ft refine.FailureType, format string, args ...any) *ExtractionError {
	return &ExtractionError{Type: ft, Message: fmt.Sprintf(format, args...)}
}

// CompensationRow is one executive's row from a Summary Compensation Table.
// Money amounts are in dollars as reported; Year is the fiscal year.
type CompensationRow struct {
	Name         string  `json:"name"`
	Position     string  `json:"position,omitempty"`
	Year         int     `json:"year"`
	Salary       float64 `json:"salary"`
	Bonus        float64 `json:"bonus"`
	StockAwards  float64 `json:"stock_awards"`
	OptionAwards float64 `json:"option_awards"`
	NonEquity    float64 `json:"non_equity_incentive"`
	AllOther     float64 `json:"all_other_compensation"`
	Total        float64 `json:"total"`
}

// Map flattens the row for schema analysis.
func (r CompensationRow) Map() map[string]any {
	return map[string]any{
		"name":                   r.Name,
		"position":               r.Position,
		"year":                   r.Year,
		"salary":                 r.Salary,
		"bonus":                  r.Bonus,
		"stock_awards":           r.StockAwards,
		"option_awards":          r.OptionAwards,
		"non_equity_incentive":   r.NonEquity,
		"all_other_compensation": r.AllOther,
		"total":                  r.Total,
	}
}

// TaxCategory groups tax disclosure line items.
type TaxCategory string

const (
	TaxCurrent        TaxCategory = "current"
	TaxDeferred       TaxCategory = "deferred"
	TaxReconciliation TaxCategory = "rate_reconciliation"
	TaxOther          TaxCategory = "other"
)

// TaxLineItem is one labeled row from an income tax disclosure table.
type TaxLineItem struct {
	Label        string      `json:"label"`
	Category     TaxCategory `json:"category"`
	Jurisdiction string      `json:"jurisdiction,omitempty"`
	// Values align with Periods; both follow the table's column order.
	Values  []float64 `json:"values"`
	Periods []string  `json:"periods,omitempty"`
}

// Map flattens the line item for schema analysis.
func (t TaxLineItem) Map() map[string]any {
	values := make([]any, len(t.Values))
	for i, v := range t.Values {
		values[i] = v
	}
	m := map[string]any{
		"label":    t.Label,
		"category": string(t.Category),
		"values":   values,
	}
	if t.Jurisdiction != "" {
		m["jurisdiction"] = t.Jurisdiction
	}
	return m
}
