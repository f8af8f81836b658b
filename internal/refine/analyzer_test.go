package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioFailures builds the canonical six-failure batch: three missing
// "salary", two wrong-value "salary", one parse error.
func scenarioFailures() []Failure {
	fs := []Failure{}
	for i := 0; i < 3; i++ {
		fs = append(fs, Failure{
			Type:          FailureMissingData,
			MissingFields: []string{"salary"},
		})
	}
	for i := 0; i < 2; i++ {
		fs = append(fs, Failure{
			Type: FailureIncorrectTransformation,
			IncorrectFields: map[string]FieldDiff{
				"salary": {Expected: 100000, Actual: "100,000"},
			},
		})
	}
	fs = append(fs, Failure{
		Type:         FailureParsingError,
		ErrorMessage: "no table found",
	})
	return fs
}

func TestAnalyze_EmptyInputIsValidNoData(t *testing.T) {
	a := NewAnalyzer(0.3, 2)
	analysis := a.Analyze(nil)

	require.NotNil(t, analysis)
	assert.Equal(t, 0, analysis.TotalFailures)
	assert.Equal(t, 0.0, analysis.Confidence)
	assert.Empty(t, analysis.Patterns)
}

func TestAnalyze_Scenario(t *testing.T) {
	a := NewAnalyzer(0.3, 2)
	analysis := a.Analyze(scenarioFailures())

	assert.Equal(t, 6, analysis.TotalFailures)
	assert.Equal(t, map[FailureType]int{
		FailureMissingData:             3,
		FailureIncorrectTransformation: 2,
		FailureParsingError:            1,
	}, analysis.Categories)

	// At least one pattern names salary with frequency >= 0.3.
	found := false
	for _, p := range analysis.Patterns {
		for _, f := range p.AffectedFields {
			if f == "salary" && p.Frequency >= 0.3 {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a salary pattern at frequency >= 0.3, got %+v", analysis.Patterns)

	// Field statistics are gated by min_field_failures=2; salary has 5.
	stats, ok := analysis.FieldStatistics["salary"]
	require.True(t, ok)
	assert.Equal(t, 3, stats.MissingCount)
	assert.Equal(t, 2, stats.IncorrectCount)
	assert.InDelta(t, 5.0/6.0, stats.FailureRate, 1e-9)
}

func TestAnalyze_PatternsSortedByFrequencyDesc(t *testing.T) {
	a := NewAnalyzer(0.1, 2)
	analysis := a.Analyze(scenarioFailures())

	require.NotEmpty(t, analysis.Patterns)
	for i := 1; i < len(analysis.Patterns); i++ {
		assert.GreaterOrEqual(t,
			analysis.Patterns[i-1].Frequency, analysis.Patterns[i].Frequency)
	}
}

func TestAnalyze_FrequencyFloorFiltersNoise(t *testing.T) {
	// The single parse error is 1/6 of failures, below the 0.3 floor.
	a := NewAnalyzer(0.3, 2)
	analysis := a.Analyze(scenarioFailures())

	for _, p := range analysis.Patterns {
		assert.NotEqual(t, "parsing_error", p.Name)
	}
}

func TestAnalyze_FieldFloorFiltersRareFields(t *testing.T) {
	a := NewAnalyzer(0.3, 2)
	analysis := a.Analyze([]Failure{
		{Type: FailureMissingData, MissingFields: []string{"salary"}},
		{Type: FailureMissingData, MissingFields: []string{"salary"}},
		{Type: FailureMissingData, MissingFields: []string{"bonus"}},
	})

	_, ok := analysis.FieldStatistics["salary"]
	assert.True(t, ok)
	_, ok = analysis.FieldStatistics["bonus"]
	assert.False(t, ok, "single failure is below min_field_failures")
}

func TestAnalyze_MalformedRecordCountsButContributesNoStats(t *testing.T) {
	a := NewAnalyzer(0.3, 1)
	analysis := a.Analyze([]Failure{
		{Type: FailureIncorrectTransformation}, // neither missing nor incorrect fields
		{Type: FailureMissingData, MissingFields: []string{"salary"}},
	})

	assert.Equal(t, 2, analysis.TotalFailures)
	assert.Len(t, analysis.FieldStatistics, 1)
}

func TestAnalyze_ConfidenceMonotonicInCoverage(t *testing.T) {
	a := NewAnalyzer(0.3, 2)

	concentrated := a.Analyze(scenarioFailures())

	// Scattered: five distinct one-off failure types, nothing clusters.
	scattered := a.Analyze([]Failure{
		{Type: FailureMissingData, MissingFields: []string{"a"}},
		{Type: FailureIncorrectTransformation, IncorrectFields: map[string]FieldDiff{"b": {}}},
		{Type: FailureParsingError},
		{Type: FailureWrongFieldCount},
		{Type: FailureExtractionError},
	})

	assert.Greater(t, concentrated.Confidence, scattered.Confidence)
}

func TestSuggestRefinements_PriorityOrdering(t *testing.T) {
	a := NewAnalyzer(0.1, 2)
	analysis := a.Analyze(scenarioFailures())

	suggestions := a.SuggestRefinements(analysis)
	require.NotEmpty(t, suggestions)

	// No LOW suggestion may precede a CRITICAL or HIGH one.
	lastRank := -1
	for _, s := range suggestions {
		rank := priorityRank(s.Priority)
		assert.GreaterOrEqual(t, rank, lastRank)
		lastRank = rank
	}
}

func TestSuggestRefinements_ParsingErrorsAreCritical(t *testing.T) {
	// Make parse errors frequent enough to cluster.
	a := NewAnalyzer(0.3, 2)
	analysis := a.Analyze([]Failure{
		{Type: FailureParsingError},
		{Type: FailureParsingError},
		{Type: FailureMissingData, MissingFields: []string{"salary"}},
	})

	suggestions := a.SuggestRefinements(analysis)
	require.NotEmpty(t, suggestions)

	var parserFix *Suggestion
	for i := range suggestions {
		if suggestions[i].Type == SuggestionParserFix {
			parserFix = &suggestions[i]
		}
	}
	require.NotNil(t, parserFix)
	assert.Equal(t, PriorityCritical, parserFix.Priority)
}

func TestSuggestRefinements_EmptyAnalysis(t *testing.T) {
	a := NewAnalyzer(0.3, 2)
	assert.Nil(t, a.SuggestRefinements(a.Analyze(nil)))
	assert.Nil(t, a.SuggestRefinements(nil))
}

func TestNewAnalyzer_DefaultsOnInvalidThresholds(t *testing.T) {
	a := NewAnalyzer(-1, 0)
	assert.Equal(t, 0.3, a.minPatternFrequency)
	assert.Equal(t, 2, a.minFieldFailures)
}
