package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter renders the report as an .xlsx workbook: one sheet of
// records, plus a patterns sheet when patterns are present.
type ExcelWriter struct{}

// Format implements Writer.
func (*ExcelWriter) Format() string { return "xlsx" }

// Write implements Writer.
func (*ExcelWriter) Write(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Records"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	cols := r.columns()
	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, rec := range r.Records {
		row := make([]any, len(cols))
		for j, col := range cols {
			row[j] = rec[col]
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if len(r.Patterns) > 0 {
		if err := writePatternSheet(f, r); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func writePatternSheet(f *excelize.File, r *Report) error {
	const sheet = "Patterns"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"type", "transformation", "confidence", "source", "target"}); err != nil {
		return err
	}
	for i, p := range r.Patterns {
		row := []any{string(p.Type), p.Transformation, p.Confidence, p.SourcePath, p.TargetPath}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return f.SetSheetRow(sheet, cell, &values)
}
