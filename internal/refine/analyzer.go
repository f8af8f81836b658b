package refine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Analyzer clusters failures and proposes refinements. The two thresholds
// are fixed at construction; Analyze and SuggestRefinements are pure
// computations with no I/O and no retained state.
type Analyzer struct {
	// minPatternFrequency is the fraction of total failures a cluster must
	// represent to be reported as a pattern rather than noise.
	minPatternFrequency float64
	// minFieldFailures is the absolute failure count a single field needs
	// before it appears in field statistics.
	minFieldFailures int
}

// NewAnalyzer returns an analyzer with the given thresholds. Out-of-range
// values fall back to defaults (0.3 and 2).
func NewAnalyzer(minPatternFrequency float64, minFieldFailures int) *Analyzer {
	if minPatternFrequency <= 0 || minPatternFrequency > 1 {
		minPatternFrequency = 0.3
	}
	if minFieldFailures <= 0 {
		minFieldFailures = 2
	}
	return &Analyzer{
		minPatternFrequency: minPatternFrequency,
		minFieldFailures:    minFieldFailures,
	}
}

// Analyze categorizes failures, clusters them by failure type and by
// implicated field, and computes field-level statistics. An empty input is a
// valid no-data case: zero confidence, no patterns, no error.
func (a *Analyzer) Analyze(failures []Failure) *Analysis {
	analysis := &Analysis{
		TotalFailures:   len(failures),
		Categories:      make(map[FailureType]int),
		FieldStatistics: make(map[string]*FieldStats),
	}
	if len(failures) == 0 {
		return analysis
	}
	total := float64(len(failures))

	for _, f := range failures {
		analysis.Categories[f.Type]++
	}

	// Per-field counts. A record carrying neither missing nor incorrect
	// fields still counts toward the total but contributes nothing here.
	type fieldCount struct {
		missing   int
		incorrect int
		indices   map[int]bool
	}
	fieldCounts := map[string]*fieldCount{}
	fieldOrder := []string{}
	touch := func(field string) *fieldCount {
		fc, ok := fieldCounts[field]
		if !ok {
			fc = &fieldCount{indices: map[int]bool{}}
			fieldCounts[field] = fc
			fieldOrder = append(fieldOrder, field)
		}
		return fc
	}
	for i, f := range failures {
		for _, field := range f.MissingFields {
			fc := touch(field)
			fc.missing++
			fc.indices[i] = true
		}
		for field := range f.IncorrectFields {
			fc := touch(field)
			fc.incorrect++
			fc.indices[i] = true
		}
	}
	for _, field := range fieldOrder {
		fc := fieldCounts[field]
		if fc.missing+fc.incorrect < a.minFieldFailures {
			continue
		}
		analysis.FieldStatistics[field] = &FieldStats{
			MissingCount:   fc.missing,
			IncorrectCount: fc.incorrect,
			FailureRate:    float64(len(fc.indices)) / total,
		}
	}

	// Clusters by failure type, in first-seen order.
	covered := map[int]bool{}
	typeOrder := []FailureType{}
	byType := map[FailureType][]int{}
	for i, f := range failures {
		if _, ok := byType[f.Type]; !ok {
			typeOrder = append(typeOrder, f.Type)
		}
		byType[f.Type] = append(byType[f.Type], i)
	}
	for _, ft := range typeOrder {
		indices := byType[ft]
		freq := float64(len(indices)) / total
		if freq < a.minPatternFrequency {
			continue
		}
		analysis.Patterns = append(analysis.Patterns, DetectedPattern{
			Name:           strings.ToLower(string(ft)),
			Frequency:      freq,
			AffectedFields: affectedFields(failures, indices),
			FailureTypes:   []FailureType{ft},
			Suggestion:     typeSuggestion(ft),
		})
		for _, i := range indices {
			covered[i] = true
		}
	}

	// Clusters by implicated field.
	for _, field := range fieldOrder {
		fc := fieldCounts[field]
		freq := float64(len(fc.indices)) / total
		if freq < a.minPatternFrequency {
			continue
		}
		indices := make([]int, 0, len(fc.indices))
		for i := range fc.indices {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		analysis.Patterns = append(analysis.Patterns, DetectedPattern{
			Name:           "field:" + field,
			Frequency:      freq,
			AffectedFields: []string{field},
			FailureTypes:   failureTypes(failures, indices),
			Suggestion: fmt.Sprintf(
				"field %q fails in %.0f%% of cases (%d missing, %d incorrect); review its extraction rule",
				field, 100*freq, fc.missing, fc.incorrect),
		})
		for _, i := range indices {
			covered[i] = true
		}
	}

	// Frequency descending; ties keep detection order.
	sort.SliceStable(analysis.Patterns, func(i, j int) bool {
		return analysis.Patterns[i].Frequency > analysis.Patterns[j].Frequency
	})

	analysis.Confidence = aggregateConfidence(analysis.Patterns, covered, len(failures))
	return analysis
}

// aggregateConfidence scores how well the detected patterns explain the
// failure set: coverage (fraction of failures in at least one cluster) times
// concentration (share of the largest cluster). Monotonic in coverage; the
// exact shape is a heuristic, not a contract.
func aggregateConfidence(patterns []DetectedPattern, covered map[int]bool, total int) float64 {
	if total == 0 || len(patterns) == 0 {
		return 0
	}
	coverage := float64(len(covered)) / float64(total)
	concentration := patterns[0].Frequency // already sorted descending
	return coverage * concentration
}

func affectedFields(failures []Failure, indices []int) []string {
	seen := map[string]bool{}
	var out []string
	for _, i := range indices {
		for _, field := range failures[i].MissingFields {
			if !seen[field] {
				seen[field] = true
				out = append(out, field)
			}
		}
		for field := range failures[i].IncorrectFields {
			if !seen[field] {
				seen[field] = true
				out = append(out, field)
			}
		}
	}
	sort.Strings(out)
	return out
}

func failureTypes(failures []Failure, indices []int) []FailureType {
	seen := map[FailureType]bool{}
	var out []FailureType
	for _, i := range indices {
		if !seen[failures[i].Type] {
			seen[failures[i].Type] = true
			out = append(out, failures[i].Type)
		}
	}
	return out
}

func typeSuggestion(ft FailureType) string {
	switch ft {
	case FailureMissingData:
		return "expected fields are absent; add fallback column positions or broaden the header synonyms"
	case FailureIncorrectTransformation:
		return "values extract but transform incorrectly; re-check cleanup regexes and type conversions"
	case FailureParsingError:
		return "input documents fail to parse; fix the parser before tuning field rules"
	case FailureWrongFieldCount:
		return "output shape disagrees with expectations; re-check column guessing"
	default:
		return "extractor errored before producing output; inspect the error messages"
	}
}

// SuggestRefinements translates an analysis into prioritized suggestions:
// parsing-error clusters and dominant fields are CRITICAL, moderate-share
// patterns HIGH, narrow issues MEDIUM or LOW. Sorted CRITICAL first; stable
// insertion order within a priority.
func (a *Analyzer) SuggestRefinements(analysis *Analysis) []Suggestion {
	if analysis == nil || analysis.TotalFailures == 0 {
		return nil
	}

	var suggestions []Suggestion
	for _, p := range analysis.Patterns {
		s := Suggestion{
			ID:               uuid.New().String(),
			Priority:         patternPriority(p),
			Target:           p.Name,
			Suggestion:       p.Suggestion,
			Rationale:        fmt.Sprintf("cluster %q covers %.0f%% of %d failures", p.Name, 100*p.Frequency, analysis.TotalFailures),
			AffectedPatterns: []string{p.Name},
		}
		if hasType(p.FailureTypes, FailureParsingError) {
			s.Type = SuggestionParserFix
		} else if strings.HasPrefix(p.Name, "field:") {
			s.Type = SuggestionFieldRule
		} else {
			s.Type = SuggestionPatternFix
		}
		suggestions = append(suggestions, s)
	}

	suggestions = append(suggestions, fieldSuggestions(analysis.FieldStatistics)...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityRank(suggestions[i].Priority) < priorityRank(suggestions[j].Priority)
	})
	return suggestions
}

// fieldSuggestions renders field statistics into suggestions in a stable
// field-name order so repeated runs agree.
func fieldSuggestions(stats map[string]*FieldStats) []Suggestion {
	fields := make([]string, 0, len(stats))
	for f := range stats {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]Suggestion, 0, len(fields))
	for _, field := range fields {
		st := stats[field]
		out = append(out, Suggestion{
			ID:       uuid.New().String(),
			Priority: ratePriority(st.FailureRate),
			Type:     SuggestionFieldRule,
			Target:   field,
			Suggestion: fmt.Sprintf(
				"strengthen extraction for %q (%d missing, %d incorrect)",
				field, st.MissingCount, st.IncorrectCount),
			Rationale: fmt.Sprintf("field involved in %.0f%% of failures", 100*st.FailureRate),
		})
	}
	return out
}

func patternPriority(p DetectedPattern) Priority {
	if hasType(p.FailureTypes, FailureParsingError) {
		return PriorityCritical
	}
	return ratePriority(p.Frequency)
}

func ratePriority(rate float64) Priority {
	switch {
	case rate >= 0.5:
		return PriorityCritical
	case rate >= 0.3:
		return PriorityHigh
	case rate >= 0.15:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func hasType(types []FailureType, ft FailureType) bool {
	for _, t := range types {
		if t == ft {
			return true
		}
	}
	return false
}
