// Package chart draws simple horizontal bar charts with lipgloss.
package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one bar.
type Row struct {
	Label   string
	Value   float64
	Display string
}

// Bars renders rows as labelled bars scaled to the largest absolute value.
// width is the maximum bar length in cells.
func Bars(title string, rows []Row, width int, barStyle lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("no data"))
		return b.String()
	}

	labelWidth, maxValue := 0, 0.0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
		maxValue = max(maxValue, math.Abs(r.Value))
	}

	for i, r := range rows {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(math.Abs(r.Value) / maxValue * float64(width)))
		}
		label := r.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(r.Label))
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", n)))
		b.WriteString(" ")
		b.WriteString(r.Display)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
