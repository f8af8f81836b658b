package extractors

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
)

// SCTExtractor locates the Summary Compensation Table in a proxy statement
// and parses executive rows out of it. Pure heuristics: keyword scoring to
// find the table, header synonyms with positional fallback to guess
// columns, regex cleanup for money cells.
type SCTExtractor struct {
	rules *Rules
}

// NewSCTExtractor builds the extractor; nil rules selects the embedded
// defaults.
func NewSCTExtractor(rules *Rules) (*SCTExtractor, error) {
	if rules == nil {
		var err error
		rules, err = DefaultRules()
		if err != nil {
			return nil, err
		}
	}
	return &SCTExtractor{rules: rules}, nil
}

// Name implements Extractor.
func (e *SCTExtractor) Name() string { return "sct" }

// Extract implements Extractor.
func (e *SCTExtractor) Extract(doc []byte) (*Result, error) {
	rows, conf, warnings, err := e.ExtractRows(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Extractor:  e.Name(),
		Confidence: conf,
		Warnings:   warnings,
	}
	for _, r := range rows {
		result.Records = append(result.Records, r.Map())
	}
	return result, nil
}

// ExtractRows returns typed compensation rows plus the table-match
// confidence.
func (e *SCTExtractor) ExtractRows(doc []byte) ([]CompensationRow, float64, []string, error) {
	tables, err := ScanTables(doc)
	if err != nil {
		return nil, 0, nil, NewExtractionError(refine.FailureParsingError, "cannot parse document: %v", err)
	}
	if len(tables) == 0 {
		return nil, 0, nil, NewExtractionError(refine.FailureParsingError, "document contains no tables")
	}

	table, confidence := bestTable(tables, e.rules.SCT)
	if table == nil {
		return nil, 0, nil, NewExtractionError(refine.FailureMissingData,
			"no table scored above %.1f for the summary compensation table", e.rules.SCT.MinScore)
	}

	headerIdx := findHeaderRow(*table, "salary")
	if headerIdx < 0 {
		return nil, confidence, nil, NewExtractionError(refine.FailureMissingData,
			"matched table has no salary header row")
	}

	cols := mapColumns(table.Rows[headerIdx], e.rules.SCT.Columns)

	var rows []CompensationRow
	var warnings []string
	lastName := ""
	for i := headerIdx + 1; i < len(table.Rows); i++ {
		raw := table.Rows[i]
		year, ok := rowYear(raw, cols)
		if !ok {
			continue // separator or footnote row
		}

		name := cellAt(raw, cols["name"])
		if name == "" || isNumericCell(name) {
			// SCT rows repeat an executive across fiscal years with the
			// name printed only on the first row.
			name = lastName
		} else {
			lastName = name
		}
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: year %d with no attributable name", i, year))
			continue
		}

		row := CompensationRow{Name: name, Year: year}
		row.Salary = e.money(raw, cols, "salary", &warnings, i)
		row.Bonus = e.money(raw, cols, "bonus", &warnings, i)
		row.StockAwards = e.money(raw, cols, "stock_awards", &warnings, i)
		row.OptionAwards = e.money(raw, cols, "option_awards", &warnings, i)
		row.NonEquity = e.money(raw, cols, "non_equity_incentive", &warnings, i)
		row.AllOther = e.money(raw, cols, "all_other_compensation", &warnings, i)
		row.Total = e.money(raw, cols, "total", &warnings, i)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, confidence, warnings, NewExtractionError(refine.FailureMissingData,
			"summary compensation table matched but no data rows parsed")
	}
	return rows, confidence, warnings, nil
}

func (e *SCTExtractor) money(row []string, cols map[string]int, field string, warnings *[]string, rowIdx int) float64 {
	idx, ok := cols[field]
	if !ok {
		return 0
	}
	cell := cellAt(row, idx)
	v, parsed := e.rules.Cleanup.parseMoney(cell)
	if !parsed {
		*warnings = append(*warnings, fmt.Sprintf("row %d: unparseable %s cell %q", rowIdx, field, cell))
		return 0
	}
	return v
}

// bestTable returns the highest-scoring table at or above the rule floor,
// with the score normalized to [0,1].
func bestTable(tables []Table, rules TableRules) (*Table, float64) {
	var best *Table
	var bestScore, bestMax float64
	for i := range tables {
		score, max := rules.score(tableText(tables[i]))
		if score >= rules.MinScore && score > bestScore {
			best = &tables[i]
			bestScore, bestMax = score, max
		}
	}
	if best == nil || bestMax == 0 {
		return nil, 0
	}
	return best, bestScore / bestMax
}

// findHeaderRow returns the first row mentioning the anchor keyword.
func findHeaderRow(t Table, anchor string) int {
	for i, row := range t.Rows {
		if strings.Contains(rowText(row), anchor) {
			return i
		}
	}
	return -1
}

// mapColumns resolves each rule column to a cell index. All synonym
// matches resolve first so a positional fallback never claims a cell
// another column's header text identifies.
func mapColumns(header []string, columns []Column) map[string]int {
	cols := make(map[string]int, len(columns))
	used := make(map[int]bool)

	for _, col := range columns {
		for i, cell := range header {
			if used[i] {
				continue
			}
			lower := strings.ToLower(cell)
			if lower == "" {
				continue
			}
			matched := false
			for _, syn := range col.Synonyms {
				if strings.Contains(lower, strings.ToLower(syn)) {
					matched = true
					break
				}
			}
			if matched {
				cols[col.Field] = i
				used[i] = true
				break
			}
		}
	}

	for _, col := range columns {
		if _, ok := cols[col.Field]; ok {
			continue
		}
		// A position already claimed by a header match belongs to that
		// column; the field stays unmapped rather than double-reading.
		if used[col.Position] {
			continue
		}
		cols[col.Field] = col.Position
	}
	return cols
}

// rowYear finds the fiscal year for a data row: the mapped year column
// first, any cell as fallback.
func rowYear(row []string, cols map[string]int) (int, bool) {
	if idx, ok := cols["year"]; ok {
		if y, ok := parseYear(cellAt(row, idx)); ok {
			return y, true
		}
	}
	for _, cell := range row {
		if y, ok := parseYear(cell); ok {
			return y, true
		}
	}
	return 0, false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isNumericCell(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' && r != '.' && r != '$' && r != '(' && r != ')' {
			return false
		}
	}
	return true
}
