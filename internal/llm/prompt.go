package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/edgarsift/internal/refine"
	"github.com/fyrsmithlabs/edgarsift/internal/schema"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

// schemaSystemPrompt frames the model as a reviewer of detected
// transformation patterns.
const schemaSystemPrompt = `You are reviewing automatically detected data transformation patterns between an input schema and an output schema.

Explain in plain language what the transformation does, call out any detected pattern that looks suspicious given the schema differences, and note fields that no pattern covers. Be concise and concrete; refer to fields by their exact paths.`

// refineSystemPrompt frames the model as a triage assistant for
// extraction failures.
const refineSystemPrompt = `You are triaging extraction failures for a financial-filings data pipeline.

Given failure clusters and prioritized suggestions, explain the most likely root causes and the order in which to address them. Be concise; refer to failure types and field names exactly as given.`

// SchemaPrompt renders schema differences and detected patterns as the
// user message for pattern review.
func SchemaPrompt(diffs []schema.Difference, patterns []transform.Pattern) string {
	var b strings.Builder

	b.WriteString("Schema differences:\n")
	if len(diffs) == 0 {
		b.WriteString("(none)\n")
	}
	for _, d := range diffs {
		switch d.Type {
		case schema.DiffRenamed:
			fmt.Fprintf(&b, "- renamed: %s -> %s (confidence %.2f)\n", d.InputPath, d.OutputPath, d.Confidence)
		case schema.DiffAdded:
			fmt.Fprintf(&b, "- added: %s\n", d.OutputPath)
		case schema.DiffRemoved:
			fmt.Fprintf(&b, "- removed: %s\n", d.InputPath)
		case schema.DiffTypeChanged:
			fmt.Fprintf(&b, "- type changed: %s\n", d.InputPath)
		}
	}

	b.WriteString("\nDetected patterns:\n")
	if len(patterns) == 0 {
		b.WriteString("(none)\n")
	}
	for _, p := range patterns {
		fmt.Fprintf(&b, "- [%s, confidence %.2f] %s\n", p.Type, p.Confidence, p.Transformation)
	}
	return b.String()
}

// RefinePrompt renders a failure analysis and its suggestions as the
// user message for failure triage.
func RefinePrompt(analysis *refine.Analysis, suggestions []refine.Suggestion) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total failures: %d (analysis confidence %.2f)\n\nCategories:\n", analysis.TotalFailures, analysis.Confidence)
	for _, ft := range []refine.FailureType{
		refine.FailureMissingData,
		refine.FailureIncorrectTransformation,
		refine.FailureParsingError,
		refine.FailureWrongFieldCount,
		refine.FailureExtractionError,
	} {
		if count := analysis.Categories[ft]; count > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", ft, count)
		}
	}

	b.WriteString("\nFailure clusters:\n")
	if len(analysis.Patterns) == 0 {
		b.WriteString("(none above the frequency floor)\n")
	}
	for _, p := range analysis.Patterns {
		fmt.Fprintf(&b, "- %s: %.0f%% of failures", p.Name, p.Frequency*100)
		if len(p.AffectedFields) > 0 {
			fmt.Fprintf(&b, " (fields: %s)", strings.Join(p.AffectedFields, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nSuggestions:\n")
	for _, s := range suggestions {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", s.Priority, s.Target, s.Suggestion)
	}
	return b.String()
}

// Explainer narrates analysis results through the model.
type Explainer struct {
	client *Client
}

// NewExplainer wraps a client.
func NewExplainer(client *Client) *Explainer {
	return &Explainer{client: client}
}

// ExplainPatterns asks for a prose review of detected patterns.
func (e *Explainer) ExplainPatterns(ctx context.Context, diffs []schema.Difference, patterns []transform.Pattern) (string, error) {
	return e.client.Complete(ctx, schemaSystemPrompt, SchemaPrompt(diffs, patterns))
}

// ExplainFailures asks for a prose triage of a failure analysis.
func (e *Explainer) ExplainFailures(ctx context.Context, analysis *refine.Analysis, suggestions []refine.Suggestion) (string, error) {
	return e.client.Complete(ctx, refineSystemPrompt, RefinePrompt(analysis, suggestions))
}
