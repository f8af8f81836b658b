// Package pipeline wires data sources, pattern application, and file
// watching into end-to-end extraction runs.
package pipeline

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/edgarsift/internal/edgar"
	"github.com/fyrsmithlabs/edgarsift/internal/extractors"
)

// DataSource yields flat records for schema analysis and pattern runs.
type DataSource interface {
	Name() string
	Fetch(ctx context.Context) ([]map[string]any, error)
}

// FileSource reads records from a local file: a top-level JSON array of
// objects, one JSON object per line, or CSV with a header row.
type FileSource struct {
	Path string
}

// Name implements DataSource.
func (s *FileSource) Name() string { return "file:" + s.Path }

// Fetch implements DataSource.
func (s *FileSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	if strings.EqualFold(filepath.Ext(s.Path), ".csv") {
		return s.fetchCSV(data)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.Path, err)
		}
		return records, nil
	}

	// JSON Lines
	var records []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", s.Path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.Path, err)
	}
	return records, nil
}

// fetchCSV treats the first row as the header; every cell stays a string.
func (s *FileSource) fetchCSV(data []byte) ([]map[string]any, error) {
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// FilingListSource fetches a company's recent filings of one form type
// from the submissions API and emits them as records.
type FilingListSource struct {
	Client *edgar.Client
	CIK    string
	Form   string
}

// Name implements DataSource.
func (s *FilingListSource) Name() string {
	return fmt.Sprintf("edgar:%s:%s", s.CIK, s.Form)
}

// Fetch implements DataSource.
func (s *FilingListSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	subs, err := s.Client.Submissions(ctx, s.CIK)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	for _, f := range subs.FilingsOfForm(s.Form) {
		records = append(records, map[string]any{
			"cik":              subs.CIK,
			"company":          subs.Name,
			"form":             f.Form,
			"accession_number": f.AccessionNumber,
			"filing_date":      f.FilingDate,
			"primary_document": f.PrimaryDocument,
		})
	}
	return records, nil
}

// DocumentSource fetches one filing document and runs an extractor over
// it.
type DocumentSource struct {
	Client    *edgar.Client
	Registry  *extractors.Registry
	Extractor string
	CIK       string
	Accession string
	Document  string
}

// Name implements DataSource.
func (s *DocumentSource) Name() string {
	return fmt.Sprintf("edgar:%s:%s:%s", s.CIK, s.Accession, s.Extractor)
}

// Fetch implements DataSource. Extraction failures pass through typed so
// callers can feed them to failure analysis.
func (s *DocumentSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	doc, err := s.Client.FilingDocument(ctx, s.CIK, s.Accession, s.Document)
	if err != nil {
		return nil, err
	}
	result, err := s.Registry.Run(s.Extractor, doc)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}
