package main

import (
	"cmp"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/findash/config"
)

// Theme assigns a color to each role an element plays on screen.
type Theme struct {
	// Accent marks titles, key hints, active tabs, selected rows and chart bars.
	Accent lipgloss.Color
	// Credit colors income records and money coming into an account.
	Credit lipgloss.Color
	// Debit colors money leaving an account and negative nets.
	Debit  lipgloss.Color
	Alert  lipgloss.Color
	Status lipgloss.Color
	Muted  lipgloss.Color
	Frame  lipgloss.Color
	Text   lipgloss.Color
}

// defaultColors fills every role the config file leaves empty.
var defaultColors = config.Colors{
	Accent: "#ffd644",
	Credit: "#22ba46",
	Debit:  "#e05951",
	Alert:  "#ff4d4f",
	Status: "#22ba46",
	Muted:  "#7f7d78",
	Frame:  "#7D56F4",
	Text:   "#FAFAFA",
}

// newTheme overlays colors on defaultColors. Values are passed to lipgloss
// untouched, so both hex ("#ff0000") and ANSI ("21") work.
func newTheme(colors config.Colors) Theme {
	role := func(set, fallback string) lipgloss.Color {
		return lipgloss.Color(cmp.Or(set, fallback))
	}
	return Theme{
		Accent: role(colors.Accent, defaultColors.Accent),
		Credit: role(colors.Credit, defaultColors.Credit),
		Debit:  role(colors.Debit, defaultColors.Debit),
		Alert:  role(colors.Alert, defaultColors.Alert),
		Status: role(colors.Status, defaultColors.Status),
		Muted:  role(colors.Muted, defaultColors.Muted),
		Frame:  role(colors.Frame, defaultColors.Frame),
		Text:   role(colors.Text, defaultColors.Text),
	}
}
