package config

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration structure.
type Config struct {
	// BaseURL is the root of the finance backend API
	BaseURL string `toml:"base_url" mapstructure:"base_url"`
	// Currency is the ISO code amounts are displayed in
	Currency string `toml:"currency" mapstructure:"currency"`
	// SessionFile overrides where the login token is kept
	SessionFile string `toml:"session_file" mapstructure:"session_file"`
	// AnthropicAPIKey enables category suggestions for new income records
	AnthropicAPIKey string `toml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	// Debug enables debug logging
	Debug bool `toml:"debug" mapstructure:"debug"`
	// Colors overrides the default theme
	Colors Colors `toml:"colors" mapstructure:"colors"`
}

// Colors holds optional theme overrides, one per screen role. Values are
// hex ("#ff0000") or ANSI ("21") colors.
type Colors struct {
	Accent string `toml:"accent,omitempty" mapstructure:"accent"`
	Credit string `toml:"credit,omitempty" mapstructure:"credit"`
	Debit  string `toml:"debit,omitempty" mapstructure:"debit"`
	Alert  string `toml:"alert,omitempty" mapstructure:"alert"`
	Status string `toml:"status,omitempty" mapstructure:"status"`
	Muted  string `toml:"muted,omitempty" mapstructure:"muted"`
	Frame  string `toml:"frame,omitempty" mapstructure:"frame"`
	Text   string `toml:"text,omitempty" mapstructure:"text"`
}

// TOML renders the configuration as a config file with secrets masked.
func (c Config) TOML() ([]byte, error) {
	c.AnthropicAPIKey = maskSensitiveValue(c.AnthropicAPIKey)
	return toml.Marshal(c)
}

// Model represents the config view model.
type Model struct {
	configTable table.Model
}

// New creates a new config view model.
func New(primary string) Model {
	configTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Setting", Width: 20},
			{Title: "Value", Width: 40},
			{Title: "Description", Width: 50},
		}),
	)

	if primary == "" {
		primary = "#ffd644"
	}
	tableStyle := table.DefaultStyles()
	tableStyle.Selected = tableStyle.Selected.
		Foreground(lipgloss.Color(primary))

	configTable.SetStyles(tableStyle)

	return Model{configTable: configTable}
}

// SetFocus sets the focus state of the config table.
func (m *Model) SetFocus(focus bool) {
	if focus {
		m.configTable.Focus()
	} else {
		m.configTable.Blur()
	}
}

// SetSize sets the size of the config table.
func (m *Model) SetSize(width, height int) {
	m.configTable.SetHeight(height)
	m.configTable.SetWidth(width)
}

func maskSensitiveValue(value string) string {
	if value == "" {
		return "(not set)"
	}

	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}

	return value[:4] + strings.Repeat("*", len(value)-4)
}

// SetConfig sets the configuration data for the view. token is the
// current session token and is shown masked.
func (m *Model) SetConfig(config Config, token string) {
	rows := []table.Row{
		{
			"Base URL",
			config.BaseURL,
			"Finance API endpoint",
		},
		{
			"Currency",
			config.Currency,
			"Currency used to display amounts",
		},
		{
			"Session File",
			config.SessionFile,
			"Where the login token is stored",
		},
		{
			"Session Token",
			maskSensitiveValue(token),
			"Bearer token of the current login",
		},
		{
			"Anthropic API Key",
			maskSensitiveValue(config.AnthropicAPIKey),
			"Enables income category suggestions",
		},
		{
			"Debug",
			strconv.FormatBool(config.Debug),
			"Enable debug logging",
		},
	}

	m.configTable.SetRows(rows)
}

// Rows returns the rows currently shown.
func (m Model) Rows() []table.Row {
	return m.configTable.Rows()
}

// Init initializes the config view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles updates to the config view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.configTable, cmd = m.configTable.Update(msg)
	return m, cmd
}

// View renders the config view.
func (m Model) View() string {
	return m.configTable.View()
}
