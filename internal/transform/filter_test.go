package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternsWithConfidences(confs ...float64) []Pattern {
	out := make([]Pattern, len(confs))
	for i, c := range confs {
		out[i] = Pattern{ID: string(rune('a' + i)), Type: PatternTypeConversion, Confidence: c}
	}
	return out
}

func TestFilter_PartitionIsExactAndBoundaryInclusive(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: patternsWithConfidences(0.95, 0.7, 0.69, 0.5)}

	result, err := svc.Filter(pe, 0.7)
	require.NoError(t, err)

	assert.Len(t, result.Included, 2)
	assert.Len(t, result.Excluded, 2)
	assert.Equal(t, len(pe.Patterns), len(result.Included)+len(result.Excluded))

	// Boundary value 0.7 is kept.
	for _, p := range result.Included {
		assert.GreaterOrEqual(t, p.Confidence, 0.7)
	}
	for _, p := range result.Excluded {
		assert.Less(t, p.Confidence, 0.7)
	}

	// Every original pattern appears in exactly one partition.
	seen := map[string]int{}
	for _, p := range result.Included {
		seen[p.ID]++
	}
	for _, p := range result.Excluded {
		seen[p.ID]++
	}
	for _, p := range pe.Patterns {
		assert.Equal(t, 1, seen[p.ID], "pattern %s", p.ID)
	}
}

func TestFilter_RejectsOutOfRangeThresholds(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{}

	_, err := svc.Filter(pe, 1.5)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = svc.Filter(pe, -0.1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	// Boundaries themselves are valid.
	_, err = svc.Filter(pe, 0.0)
	assert.NoError(t, err)
	_, err = svc.Filter(pe, 1.0)
	assert.NoError(t, err)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: patternsWithConfidences(0.9, 0.1)}
	before := make([]Pattern, len(pe.Patterns))
	copy(before, pe.Patterns)

	_, err := svc.Filter(pe, 0.5)
	require.NoError(t, err)
	assert.Equal(t, before, pe.Patterns)
}

func TestFilter_WarnsOnHeavyExclusion(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: patternsWithConfidences(0.1, 0.2, 0.3, 0.4)}

	result, err := svc.Filter(pe, 0.9)
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "4 patterns excluded")
}

func TestFilter_WarnsOnExcludedReliableTypes(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: []Pattern{
		{ID: "1", Type: PatternFieldMapping, Confidence: 0.5},
	}}

	result, err := svc.Filter(pe, 0.6)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "field_mapping")
}

func TestFilter_WarnsOnExcludedMediumBand(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: []Pattern{
		{ID: "1", Type: PatternTypeConversion, Confidence: 0.75},
	}}

	result, err := svc.Filter(pe, 0.8)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "medium-confidence")
}

func TestFilter_NoWarningsWhenNothingExcluded(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: patternsWithConfidences(0.9, 0.95)}

	result, err := svc.Filter(pe, 0.7)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestPresets_StableValues(t *testing.T) {
	svc := NewFilterService()

	first := svc.Presets()
	second := svc.Presets()
	assert.Equal(t, first, second)

	balanced, ok := first["balanced"]
	require.True(t, ok)
	assert.Equal(t, 0.7, balanced.Threshold)
	assert.Equal(t, "Good trade-off between coverage and reliability", balanced.Description)
	assert.True(t, balanced.Recommended)

	assert.Equal(t, 0.8, first["conservative"].Threshold)
	assert.Equal(t, 0.6, first["aggressive"].Threshold)
}

func TestConfidenceSummary_Empty(t *testing.T) {
	svc := NewFilterService()
	assert.Equal(t, "No patterns detected.", svc.ConfidenceSummary(&ParsedExamples{}))
}

func TestConfidenceSummary_Bands(t *testing.T) {
	svc := NewFilterService()
	pe := &ParsedExamples{Patterns: patternsWithConfidences(0.95, 0.9, 0.89, 0.7, 0.1)}

	summary := svc.ConfidenceSummary(pe)
	assert.Contains(t, summary, "5 patterns detected")
	assert.Contains(t, summary, "high   (>= 0.90):   2 (40.0%)")
	assert.Contains(t, summary, "medium (0.70-0.89): 2 (40.0%)")
	assert.Contains(t, summary, "low    (< 0.70):    1 (20.0%)")
}
