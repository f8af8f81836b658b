package chat

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

const (
	chartWidth  = 60
	chartHeight = 12
	maxBarLabel = 12
)

// Dashboard is a static BubbleTea view of a filtered pattern set: a
// confidence bar chart plus the inclusion summary.
type Dashboard struct {
	filtered *transform.FilteredParsedExamples
	quitting bool
}

// NewDashboard creates a dashboard over a filter result.
func NewDashboard(filtered *transform.FilteredParsedExamples) Dashboard {
	return Dashboard{filtered: filtered}
}

// Init implements tea.Model.
func (d Dashboard) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			d.quitting = true
			return d, tea.Quit
		}
	}
	return d, nil
}

// View implements tea.Model.
func (d Dashboard) View() string {
	if d.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(" pattern confidence ") + "\n\n")
	b.WriteString(renderConfidenceChart(d.filtered.Patterns) + "\n")

	b.WriteString(sectionStyle.Render("┃ Filter") + "\n")
	b.WriteString(dimStyle.Render("  Threshold: ") +
		fmt.Sprintf("%.2f", d.filtered.Threshold) + "\n")
	b.WriteString(dimStyle.Render("  Included: ") +
		fmt.Sprintf("%d", len(d.filtered.Included)) +
		dimStyle.Render("   Excluded: ") +
		fmt.Sprintf("%d", len(d.filtered.Excluded)) + "\n")

	for _, w := range d.filtered.Warnings {
		b.WriteString(errorStyle.Render("  ⚠ ") + dimStyle.Render(w) + "\n")
	}

	b.WriteString("\n" + footerKeyStyle.Render("[q]") + footerStyle.Render(" quit"))
	return containerStyle.Render(b.String())
}

// renderConfidenceChart draws one bar per pattern, colored by band.
func renderConfidenceChart(patterns []transform.Pattern) string {
	if len(patterns) == 0 {
		return dimStyle.Render("No patterns detected.") + "\n"
	}

	bc := barchart.New(chartWidth, chartHeight)
	for _, p := range patterns {
		bc.Push(barchart.BarData{
			Label: barLabel(p),
			Values: []barchart.BarValue{{
				Name:  string(p.Type),
				Value: p.Confidence,
				Style: bandStyle(p.Confidence),
			}},
		})
	}
	bc.Draw()
	return bc.View() + "\n"
}

// barLabel keeps chart labels short: the target path, truncated.
func barLabel(p transform.Pattern) string {
	label := p.TargetPath
	if label == "" {
		label = string(p.Type)
	}
	if len(label) > maxBarLabel {
		label = label[:maxBarLabel-1] + "…"
	}
	return label
}

func bandStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence >= 0.9:
		return highBarStyle
	case confidence >= 0.7:
		return mediumBarStyle
	default:
		return lowBarStyle
	}
}
