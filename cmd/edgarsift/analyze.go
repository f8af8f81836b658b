package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/edgarsift/internal/pipeline"
	"github.com/fyrsmithlabs/edgarsift/internal/schema"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

var (
	filterThreshold float64
	filterPreset    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <examples.json>",
	Short: "Detect transformation patterns from example pairs",
	Long: `Analyze infers input and output schemas from a file of aligned
example pairs, diffs them, and prints every detected transformation
pattern with its confidence.

Examples:
  # Analyze aligned examples
  edgarsift analyze examples.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var filterCmd = &cobra.Command{
	Use:   "filter <examples.json>",
	Short: "Detect patterns and partition them by confidence threshold",
	Long: `Filter runs pattern detection and splits the result into included
and excluded patterns at a confidence threshold.

Examples:
  # Use the configured threshold
  edgarsift filter examples.json

  # Explicit threshold
  edgarsift filter --threshold 0.8 examples.json

  # Named preset
  edgarsift filter --preset conservative examples.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the confidence threshold presets",
	RunE:  runPresets,
}

var watchCmd = &cobra.Command{
	Use:   "watch <examples.json>",
	Short: "Re-run detection whenever the examples file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	filterCmd.Flags().Float64Var(&filterThreshold, "threshold", 0, "confidence threshold in [0, 1] (default from config)")
	filterCmd.Flags().StringVar(&filterPreset, "preset", "", "threshold preset (conservative, balanced, aggressive)")
	watchCmd.Flags().Float64Var(&filterThreshold, "threshold", 0, "confidence threshold in [0, 1] (default from config)")
}

func newDetector(maxSamples int) *transform.Detector {
	return transform.NewDetector(schema.NewAnalyzer(maxSamples))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pairs, err := pipeline.LoadPairs(args[0])
	if err != nil {
		return err
	}

	parsed := newDetector(cfg.Extraction.MaxSampleValues).Detect(pairs)
	fmt.Fprintln(cmd.OutOrStdout(), transform.NewFilterService().ConfidenceSummary(parsed))
	return printJSON(cmd.OutOrStdout(), parsed)
}

// resolveThreshold picks preset over flag over config default. The flag
// is checked through Changed so an explicit --threshold 0 holds.
func resolveThreshold(cmd *cobra.Command, svc *transform.FilterService, configDefault float64) (float64, error) {
	if filterPreset != "" {
		preset, ok := svc.Presets()[filterPreset]
		if !ok {
			names := make([]string, 0)
			for name := range svc.Presets() {
				names = append(names, name)
			}
			sort.Strings(names)
			return 0, fmt.Errorf("unknown preset %q (known: %v)", filterPreset, names)
		}
		return preset.Threshold, nil
	}
	if cmd.Flags().Changed("threshold") {
		return filterThreshold, nil
	}
	return configDefault, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc := transform.NewFilterService()
	threshold, err := resolveThreshold(cmd, svc, cfg.Extraction.ConfidenceThreshold)
	if err != nil {
		return err
	}

	pairs, err := pipeline.LoadPairs(args[0])
	if err != nil {
		return err
	}

	parsed := newDetector(cfg.Extraction.MaxSampleValues).Detect(pairs)
	filtered, err := svc.Filter(parsed, threshold)
	if err != nil {
		return err
	}

	for _, w := range filtered.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	return printJSON(cmd.OutOrStdout(), filtered)
}

func runPresets(cmd *cobra.Command, args []string) error {
	presets := transform.NewFilterService().Presets()

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := presets[name]
		marker := " "
		if p.Recommended {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-13s %.2f  %s\n", marker, name, p.Threshold, p.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\n* recommended")
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc := transform.NewFilterService()
	threshold, err := resolveThreshold(cmd, svc, cfg.Extraction.ConfidenceThreshold)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := pipeline.NewWatcher(newDetector(cfg.Extraction.MaxSampleValues), svc, threshold, logger)
	err = watcher.Run(ctx, args[0], func(filtered *transform.FilteredParsedExamples) {
		fmt.Fprintf(cmd.OutOrStdout(), "patterns: %d included, %d excluded (threshold %.2f)\n",
			len(filtered.Included), len(filtered.Excluded), filtered.Threshold)
		for _, w := range filtered.Warnings {
			fmt.Fprintln(cmd.OutOrStdout(), "  warning:", w)
		}
	})
	if ctx.Err() != nil {
		return nil // interrupted
	}
	return err
}
