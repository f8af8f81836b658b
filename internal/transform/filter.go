package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidThreshold is returned when a confidence threshold falls outside
// [0.0, 1.0].
var ErrInvalidThreshold = errors.New("confidence threshold must be between 0.0 and 1.0")

// Confidence bands used by presets, warnings, and the summary. The bands do
// not overlap: high >= 0.9, medium [0.7, 0.9), low < 0.7.
const (
	bandHigh   = 0.9
	bandMedium = 0.7
)

// Preset is a named threshold choice.
type Preset struct {
	Threshold   float64 `json:"threshold"`
	Description string  `json:"description"`
	Recommended bool    `json:"recommended"`
}

// FilterService partitions pattern sets by confidence threshold. It holds no
// state; every method is a pure function of its arguments.
type FilterService struct{}

// NewFilterService returns a stateless filter service.
func NewFilterService() *FilterService {
	return &FilterService{}
}

// Filter splits patterns into included (confidence >= threshold, boundary
// inclusive) and excluded. The input is not mutated; the result carries both
// partitions, the original pattern list, and advisory warnings.
func (s *FilterService) Filter(pe *ParsedExamples, threshold float64) (*FilteredParsedExamples, error) {
	if threshold < 0.0 || threshold > 1.0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	result := &FilteredParsedExamples{
		InputSchema:  pe.InputSchema,
		OutputSchema: pe.OutputSchema,
		Patterns:     pe.Patterns,
		Threshold:    threshold,
	}

	for _, p := range pe.Patterns {
		if p.Confidence >= threshold {
			result.Included = append(result.Included, p)
		} else {
			result.Excluded = append(result.Excluded, p)
		}
	}

	result.Warnings = exclusionWarnings(result.Excluded, threshold)
	return result, nil
}

// exclusionWarnings flags threshold choices that empirically cost accuracy.
// Advisory only: the partition stands regardless.
func exclusionWarnings(excluded []Pattern, threshold float64) []string {
	var warnings []string

	if len(excluded) > 3 {
		warnings = append(warnings, fmt.Sprintf(
			"%d patterns excluded at threshold %.2f; the generated extraction may miss transformations",
			len(excluded), threshold))
	}

	var reliable []string
	for _, p := range excluded {
		if p.Type == PatternFieldMapping || p.Type == PatternFieldRename {
			reliable = append(reliable, string(p.Type))
		}
	}
	if len(reliable) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"excluded %d pattern(s) of reliable types (%s); these usually hold even at lower confidence",
			len(reliable), strings.Join(dedupe(reliable), ", ")))
	}

	if threshold > bandMedium {
		mediumExcluded := 0
		for _, p := range excluded {
			if p.Confidence >= bandMedium && p.Confidence < bandHigh {
				mediumExcluded++
			}
		}
		if mediumExcluded > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"threshold %.2f excludes %d medium-confidence pattern(s) in the 0.70-0.89 band; consider the balanced preset",
				threshold, mediumExcluded))
		}
	}

	return warnings
}

// Presets returns the fixed threshold presets. The table is identical across
// calls.
func (s *FilterService) Presets() map[string]Preset {
	return map[string]Preset{
		"conservative": {
			Threshold:   0.8,
			Description: "Only high-confidence patterns; fewest false positives, may miss valid transformations",
		},
		"balanced": {
			Threshold:   0.7,
			Description: "Good trade-off between coverage and reliability",
			Recommended: true,
		},
		"aggressive": {
			Threshold:   0.6,
			Description: "Includes speculative patterns; broadest coverage, review the output",
		},
	}
}

// ConfidenceSummary renders a percentage breakdown of patterns into the
// high/medium/low bands.
func (s *FilterService) ConfidenceSummary(pe *ParsedExamples) string {
	if len(pe.Patterns) == 0 {
		return "No patterns detected."
	}

	var high, medium, low int
	for _, p := range pe.Patterns {
		switch {
		case p.Confidence >= bandHigh:
			high++
		case p.Confidence >= bandMedium:
			medium++
		default:
			low++
		}
	}

	total := len(pe.Patterns)
	pct := func(n int) float64 { return 100 * float64(n) / float64(total) }

	var b strings.Builder
	fmt.Fprintf(&b, "%d patterns detected\n", total)
	fmt.Fprintf(&b, "  high   (>= 0.90):   %d (%.1f%%)\n", high, pct(high))
	fmt.Fprintf(&b, "  medium (0.70-0.89): %d (%.1f%%)\n", medium, pct(medium))
	fmt.Fprintf(&b, "  low    (< 0.70):    %d (%.1f%%)", low, pct(low))
	return b.String()
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
