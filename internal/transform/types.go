// Package transform detects input-to-output transformation patterns from
// example pairs and partitions them by confidence.
package transform

import (
	"github.com/fyrsmithlabs/edgarsift/internal/schema"
)

// PatternType classifies a detected transformation.
type PatternType string

const (
	// PatternFieldMapping copies a field through unchanged.
	PatternFieldMapping PatternType = "field_mapping"
	// PatternFieldRename moves a value to a differently named field.
	PatternFieldRename PatternType = "field_rename"
	// PatternFieldExtraction lifts a nested field to the top level.
	PatternFieldExtraction PatternType = "field_extraction"
	// PatternArrayFirst takes the first element of an input array.
	PatternArrayFirst PatternType = "array_first"
	// PatternTypeConversion keeps the path but changes the value type.
	PatternTypeConversion PatternType = "type_conversion"
	// PatternCalculation derives the output from other fields. Detection
	// cannot produce these from value comparison alone; they enter the
	// pattern list via external analysis.
	PatternCalculation PatternType = "calculation"
)

// Pattern is a single detected transformation. Created once during
// detection and read-only afterward.
type Pattern struct {
	ID             string           `json:"id"`
	Type           PatternType      `json:"type"`
	Confidence     float64          `json:"confidence"`
	SourcePath     string           `json:"source_path,omitempty"`
	TargetPath     string           `json:"target_path,omitempty"`
	Transformation string           `json:"transformation"`
	SourceType     schema.FieldType `json:"source_type,omitempty"`
	TargetType     schema.FieldType `json:"target_type,omitempty"`
}

// ExamplePair is one aligned input/output example.
type ExamplePair struct {
	Input  map[string]any `json:"input"`
	Output map[string]any `json:"output"`
}

// ParsedExamples bundles the inferred schemas with every detected pattern.
type ParsedExamples struct {
	InputSchema  *schema.Schema      `json:"-"`
	OutputSchema *schema.Schema      `json:"-"`
	Differences  []schema.Difference `json:"differences"`
	Patterns     []Pattern           `json:"patterns"`
}

// FilteredParsedExamples is the threshold partition of a pattern set. The
// original unfiltered list is retained for audit.
type FilteredParsedExamples struct {
	InputSchema  *schema.Schema `json:"-"`
	OutputSchema *schema.Schema `json:"-"`
	Patterns     []Pattern      `json:"patterns"`
	Included     []Pattern      `json:"included_patterns"`
	Excluded     []Pattern      `json:"excluded_patterns"`
	Threshold    float64        `json:"confidence_threshold"`
	Warnings     []string       `json:"warnings,omitempty"`
}
