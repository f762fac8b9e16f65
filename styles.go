package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/findash/overview"
	"github.com/Rshep3087/findash/statement"
)

type styles struct {
	docStyle    lipgloss.Style
	titleStyle  lipgloss.Style
	errorStyle  lipgloss.Style
	alertStyle  lipgloss.Style
	statusStyle lipgloss.Style
	authStyle   lipgloss.Style
	mutedStyle  lipgloss.Style
}

func createStyles(theme Theme) styles {
	return styles{
		docStyle: lipgloss.NewStyle().Margin(1, standardMargin),
		titleStyle: lipgloss.NewStyle().Foreground(
			lipgloss.AdaptiveColor{Light: "#000000", Dark: string(theme.Accent)},
		).Bold(true),
		errorStyle: lipgloss.NewStyle().Foreground(theme.Alert).Bold(true),
		alertStyle: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Alert).
			Foreground(theme.Alert).
			Padding(0, 1),
		statusStyle: lipgloss.NewStyle().Foreground(theme.Status),
		authStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(1, 2),
		mutedStyle: lipgloss.NewStyle().Foreground(theme.Muted),
	}
}

func createHelpModel(theme Theme) help.Model {
	helpModel := help.New()
	helpModel.ShortSeparator = " + "
	helpModel.Styles = help.Styles{
		Ellipsis:       lipgloss.NewStyle().Foreground(theme.Muted),
		ShortKey:       lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		ShortDesc:      lipgloss.NewStyle().Foreground(theme.Text),
		ShortSeparator: lipgloss.NewStyle().Foreground(theme.Muted),
		FullKey:        lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		FullDesc:       lipgloss.NewStyle().Foreground(theme.Text),
		FullSeparator:  lipgloss.NewStyle().Foreground(theme.Muted),
	}
	return helpModel
}

func createOverviewStyles(theme Theme) overview.Styles {
	return overview.DefaultStyles(theme.Accent, theme.Credit)
}

func createStatementColors(theme Theme) statement.Colors {
	return statement.Colors{
		Accent: string(theme.Accent),
		Credit: string(theme.Credit),
		Debit:  string(theme.Debit),
		Muted:  string(theme.Muted),
	}
}
