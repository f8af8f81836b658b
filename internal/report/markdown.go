package report

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownWriter renders the report as a Markdown document: a records
// table plus pattern and warning sections when present.
type MarkdownWriter struct{}

// Format implements Writer.
func (*MarkdownWriter) Format() string { return "markdown" }

// Write implements Writer.
func (*MarkdownWriter) Write(w io.Writer, r *Report) error {
	var b strings.Builder

	if r.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", r.Title)
	}
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", r.Source)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	cols := r.columns()
	if len(cols) > 0 {
		writeMarkdownRow(&b, cols)
		sep := make([]string, len(cols))
		for i := range sep {
			sep[i] = "---"
		}
		writeMarkdownRow(&b, sep)
		for _, rec := range r.Records {
			row := make([]string, len(cols))
			for i, col := range cols {
				row[i] = escapeMarkdownCell(cellString(rec[col]))
			}
			writeMarkdownRow(&b, row)
		}
		b.WriteString("\n")
	}

	if len(r.Patterns) > 0 {
		b.WriteString("## Patterns\n\n")
		for _, p := range r.Patterns {
			fmt.Fprintf(&b, "- `%s` %s (confidence %.2f)\n", p.Type, p.Transformation, p.Confidence)
		}
		b.WriteString("\n")
	}

	if len(r.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", s.Priority, s.Target, s.Suggestion)
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
