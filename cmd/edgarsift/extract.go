package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/edgarsift/internal/config"
	"github.com/fyrsmithlabs/edgarsift/internal/edgar"
	"github.com/fyrsmithlabs/edgarsift/internal/extractors"
	"github.com/fyrsmithlabs/edgarsift/internal/pipeline"
	"github.com/fyrsmithlabs/edgarsift/internal/report"
)

var (
	extractCIK       string
	extractForm      string
	extractAccession string
	extractDocument  string
	extractorName    string
	extractFile      string

	reportInput  string
	reportFormat string
	reportOutput string
	reportTitle  string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured records from an EDGAR filing",
	Long: `Extract fetches a filing document from EDGAR (or reads a local HTML
file) and runs a table extractor over it.

Without --accession it lists the company's recent filings of the given
form instead, so the accession number can be picked.

Examples:
  # List recent proxy statements
  edgarsift extract --cik 320193 --form "DEF 14A"

  # Extract the compensation table from one filing
  edgarsift extract --cik 320193 --accession 0000320193-24-000002 \
    --document aapl-proxy.htm --extractor sct

  # Extract from a local file
  edgarsift extract --file proxy.htm --extractor sct`,
	RunE: runExtract,
}

var reportCmd = &cobra.Command{
	Use:   "report <records.json>",
	Short: "Render extracted records as json, csv, markdown, or xlsx",
	Long: `Report reads extracted records and renders them in the requested
format.

Examples:
  # Markdown to stdout
  edgarsift report records.json

  # Excel workbook
  edgarsift report --format xlsx --out comp.xlsx records.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	extractCmd.Flags().StringVar(&extractCIK, "cik", "", "company CIK")
	extractCmd.Flags().StringVar(&extractForm, "form", "DEF 14A", "form type for filing listing")
	extractCmd.Flags().StringVar(&extractAccession, "accession", "", "accession number (e.g. 0000320193-24-000002)")
	extractCmd.Flags().StringVar(&extractDocument, "document", "", "primary document name within the filing")
	extractCmd.Flags().StringVar(&extractorName, "extractor", "sct", "extractor to run (sct, tax)")
	extractCmd.Flags().StringVar(&extractFile, "file", "", "local HTML file instead of EDGAR")

	reportCmd.Flags().StringVar(&reportFormat, "format", "", "output format (default from config)")
	reportCmd.Flags().StringVar(&reportOutput, "out", "", "output file (default stdout)")
	reportCmd.Flags().StringVar(&reportTitle, "title", "Extraction report", "report title")
}

func newEDGARClient(cfg config.EDGARConfig) (*edgar.Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("edgar.user_agent is required (set EDGARSIFT_EDGAR_USER_AGENT or the config file); SEC policy needs a contact address")
	}
	return edgar.NewClient(edgar.Config{
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Timeout:           cfg.Timeout.Duration(),
		MaxRetries:        cfg.MaxRetries,
	})
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := extractors.NewDefaultRegistry()
	if err != nil {
		return err
	}

	// Local file path needs no EDGAR access.
	if extractFile != "" {
		doc, err := os.ReadFile(extractFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", extractFile, err)
		}
		result, err := registry.Run(extractorName, doc)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	}

	if extractCIK == "" {
		return fmt.Errorf("either --file or --cik is required")
	}
	client, err := newEDGARClient(cfg.EDGAR)
	if err != nil {
		return err
	}

	if extractAccession == "" {
		src := &pipeline.FilingListSource{Client: client, CIK: extractCIK, Form: extractForm}
		records, err := src.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), records)
	}

	if extractDocument == "" {
		return fmt.Errorf("--document is required with --accession")
	}
	src := &pipeline.DocumentSource{
		Client:    client,
		Registry:  registry,
		Extractor: extractorName,
		CIK:       extractCIK,
		Accession: extractAccession,
		Document:  extractDocument,
	}
	records, err := src.Fetch(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), records)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := reportFormat
	if format == "" {
		format = cfg.Report.Format
	}

	records, err := (&pipeline.FileSource{Path: args[0]}).Fetch(cmd.Context())
	if err != nil {
		return err
	}

	r := &report.Report{
		Title:       reportTitle,
		GeneratedAt: time.Now(),
		Source:      filepath.Base(args[0]),
		Records:     records,
	}

	out := cmd.OutOrStdout()
	if reportOutput != "" {
		path := reportOutput
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Report.OutputDir, path)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	return report.NewDefaultFactory().Render(format, out, r)
}
