package extractors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
)

// TaxExtractor parses the income tax provision table from a 10-K: the
// current/deferred breakdown by jurisdiction, one value column per
// reported period.
type TaxExtractor struct {
	rules *Rules
}

// NewTaxExtractor builds the extractor; nil rules selects the embedded
// defaults.
func NewTaxExtractor(rules *Rules) (*TaxExtractor, error) {
	if rules == nil {
		var err error
		rules, err = DefaultRules()
		if err != nil {
			return nil, err
		}
	}
	return &TaxExtractor{rules: rules}, nil
}

// Name implements Extractor.
func (e *TaxExtractor) Name() string { return "tax" }

// Extract implements Extractor.
func (e *TaxExtractor) Extract(doc []byte) (*Result, error) {
	items, conf, warnings, err := e.ExtractItems(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Extractor:  e.Name(),
		Confidence: conf,
		Warnings:   warnings,
	}
	for _, it := range items {
		result.Records = append(result.Records, it.Map())
	}
	return result, nil
}

// ExtractItems returns typed tax line items plus the table-match
// confidence.
func (e *TaxExtractor) ExtractItems(doc []byte) ([]TaxLineItem, float64, []string, error) {
	tables, err := ScanTables(doc)
	if err != nil {
		return nil, 0, nil, NewExtractionError(refine.FailureParsingError, "cannot parse document: %v", err)
	}
	if len(tables) == 0 {
		return nil, 0, nil, NewExtractionError(refine.FailureParsingError, "document contains no tables")
	}

	table, confidence := bestTable(tables, e.rules.Tax)
	if table == nil {
		return nil, 0, nil, NewExtractionError(refine.FailureMissingData,
			"no table scored above %.1f for the income tax provision", e.rules.Tax.MinScore)
	}

	periods, periodCols, headerIdx := periodColumns(*table)
	if len(periodCols) == 0 {
		return nil, confidence, nil, NewExtractionError(refine.FailureMissingData,
			"matched tax table has no period header")
	}

	var items []TaxLineItem
	var warnings []string
	category := TaxOther
	for i := headerIdx + 1; i < len(table.Rows); i++ {
		row := table.Rows[i]
		label := firstLabel(row)
		if label == "" {
			continue
		}
		if cat, ok := sectionCategory(label); ok {
			category = cat
		}

		values, filled, unparsed := e.rowValues(row, periodCols)
		if filled == 0 {
			continue // section heading or spacer row
		}
		if unparsed > 0 {
			warnings = append(warnings, fmt.Sprintf("line %q: %d of %d period values parsed", label, len(periodCols)-unparsed, len(periodCols)))
		}

		items = append(items, TaxLineItem{
			Label:        label,
			Category:     category,
			Jurisdiction: jurisdiction(label),
			Values:       values,
			Periods:      periods,
		})
	}

	if len(items) == 0 {
		return nil, confidence, warnings, NewExtractionError(refine.FailureMissingData,
			"income tax table matched but no line items parsed")
	}
	return items, confidence, warnings, nil
}

// rowValues parses the cells at the period columns, one value per
// period so Values stays aligned with Periods. Unparseable cells become
// 0 and are counted for the caller's warning. A row with no parseable
// non-empty cell is not a line item.
func (e *TaxExtractor) rowValues(row []string, periodCols []int) (values []float64, filled, unparsed int) {
	values = make([]float64, 0, len(periodCols))
	for _, idx := range periodCols {
		cell := cellAt(row, idx)
		v, ok := e.rules.Cleanup.parseMoney(cell)
		if !ok {
			values = append(values, 0)
			unparsed++
			continue
		}
		if cell != "" {
			filled++
		}
		values = append(values, v)
	}
	return values, filled, unparsed
}

// periodColumns finds the header row listing fiscal years and returns
// the years, their cell indices, and the header row's index so line-item
// parsing can start below it. Tax tables put the periods on the first row
// that carries two or more years.
func periodColumns(t Table) (periods []string, cols []int, headerIdx int) {
	for r, row := range t.Rows {
		var years []string
		var idxs []int
		for i, cell := range row {
			if y, ok := parseYear(cell); ok {
				years = append(years, strconv.Itoa(y))
				idxs = append(idxs, i)
			}
		}
		if len(years) >= 2 {
			return years, idxs, r
		}
	}
	return nil, nil, -1
}

// firstLabel returns the leftmost non-empty cell.
func firstLabel(row []string) string {
	for _, cell := range row {
		if s := strings.TrimSpace(cell); s != "" {
			return s
		}
	}
	return ""
}

// sectionCategory recognizes the "Current:" / "Deferred:" section
// headings that scope the jurisdiction rows beneath them.
func sectionCategory(label string) (TaxCategory, bool) {
	l := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label), ":"))
	switch {
	case l == "current" || strings.HasPrefix(l, "current"):
		return TaxCurrent, true
	case l == "deferred" || strings.HasPrefix(l, "deferred"):
		return TaxDeferred, true
	case strings.Contains(l, "reconciliation"):
		return TaxReconciliation, true
	}
	return "", false
}

func jurisdiction(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "federal"):
		return "federal"
	case strings.Contains(l, "state"):
		return "state"
	case strings.Contains(l, "foreign") || strings.Contains(l, "international"):
		return "foreign"
	}
	return ""
}
