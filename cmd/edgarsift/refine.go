package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
)

var refineCmd = &cobra.Command{
	Use:   "refine <failures.json>",
	Short: "Cluster extraction failures into refinement suggestions",
	Long: `Refine reads a JSON array of extraction failures, clusters them by
failure type and by field, and prints the analysis with prioritized
refinement suggestions.

Examples:
  # Analyze a failure log
  edgarsift refine failures.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	var failures []refine.Failure
	if err := json.Unmarshal(data, &failures); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	analyzer := refine.NewAnalyzer(cfg.Refine.MinPatternFrequency, cfg.Refine.MinFieldFailures)
	analysis := analyzer.Analyze(failures)

	return printJSON(cmd.OutOrStdout(), struct {
		Analysis    *refine.Analysis    `json:"analysis"`
		Suggestions []refine.Suggestion `json:"suggestions"`
	}{
		Analysis:    analysis,
		Suggestions: analyzer.SuggestRefinements(analysis),
	})
}
