// Package refine clusters extraction failures into frequency-ranked
// patterns and turns the clusters into prioritized refinement suggestions.
package refine

// FailureType classifies one observed extraction failure.
type FailureType string

const (
	// FailureMissingData: expected fields absent from the actual output.
	FailureMissingData FailureType = "MISSING_DATA"
	// FailureIncorrectTransformation: fields present with wrong values.
	FailureIncorrectTransformation FailureType = "INCORRECT_TRANSFORMATION"
	// FailureParsingError: the input could not be parsed at all, blocking
	// every downstream extraction for that case.
	FailureParsingError FailureType = "PARSING_ERROR"
	// FailureWrongFieldCount: output shape disagrees with the expectation.
	FailureWrongFieldCount FailureType = "WRONG_FIELD_COUNT"
	// FailureExtractionError: the extractor raised before producing output.
	FailureExtractionError FailureType = "EXTRACTION_ERROR"
)

// TestCase is an immutable (input, expected output, description) triple.
type TestCase struct {
	Input       map[string]any `json:"input"`
	Expected    map[string]any `json:"expected_output"`
	Description string         `json:"description,omitempty"`
}

// FieldDiff records an expected/actual mismatch for one field.
type FieldDiff struct {
	Expected any `json:"expected"`
	Actual   any `json:"actual"`
}

// Failure binds a test case to what actually happened.
type Failure struct {
	Case            TestCase             `json:"test_case"`
	Actual          map[string]any       `json:"actual_output,omitempty"`
	Type            FailureType          `json:"failure_type"`
	MissingFields   []string             `json:"missing_fields,omitempty"`
	IncorrectFields map[string]FieldDiff `json:"incorrect_fields,omitempty"`
	ErrorMessage    string               `json:"error_message,omitempty"`
}

// DetectedPattern is one failure cluster that met the frequency floor.
type DetectedPattern struct {
	Name string `json:"name"`
	// Frequency is the fraction of total failures in this cluster, in [0,1].
	Frequency      float64       `json:"frequency"`
	AffectedFields []string      `json:"affected_fields,omitempty"`
	FailureTypes   []FailureType `json:"failure_types"`
	Suggestion     string        `json:"suggestion"`
}

// FieldStats aggregates per-field failure counts.
type FieldStats struct {
	MissingCount   int     `json:"missing_count"`
	IncorrectCount int     `json:"incorrect_count"`
	FailureRate    float64 `json:"failure_rate"`
}

// Analysis is the categorized result of one analyzer run.
type Analysis struct {
	TotalFailures int                 `json:"total_failures"`
	Categories    map[FailureType]int `json:"categories"`
	// Confidence rises when a few high-frequency clusters explain most of
	// the failures and falls when causes are scattered. Zero for no data.
	Confidence      float64                `json:"confidence"`
	Patterns        []DetectedPattern      `json:"patterns"`
	FieldStatistics map[string]*FieldStats `json:"field_statistics"`
}

// Priority orders refinement suggestions.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// priorityRank gives sort order; lower sorts first.
func priorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// SuggestionType classifies what a suggestion asks the operator to change.
type SuggestionType string

const (
	SuggestionParserFix   SuggestionType = "parser_fix"
	SuggestionPatternFix  SuggestionType = "pattern_fix"
	SuggestionFieldRule   SuggestionType = "field_rule"
	SuggestionReviewCases SuggestionType = "review_cases"
)

// Suggestion is one prioritized, actionable refinement recommendation.
// Produced solely by Analyzer.SuggestRefinements; read-only for callers.
type Suggestion struct {
	ID               string         `json:"id"`
	Priority         Priority       `json:"priority"`
	Type             SuggestionType `json:"type"`
	Target           string         `json:"target"`
	Suggestion       string         `json:"suggestion"`
	Rationale        string         `json:"rationale"`
	AffectedPatterns []string       `json:"affected_patterns,omitempty"`
}
