// Package overview renders the income dashboard: summary cards, the trend
// and breakdown series and the table of filtered records.
package overview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/chart"
	"github.com/Rshep3087/findash/format"
	"github.com/Rshep3087/findash/income"
)

var titleCaser = cases.Title(language.English)

const (
	barWidth        = 24
	headerHeight    = 14
	minTableHeight  = 3
	emptyRecordsMsg = "No income records found."
)

// Model defines the state for the income dashboard.
type Model struct {
	Styles   Styles
	currency string
	result   income.Result
	records  table.Model
	width    int
}

type Styles struct {
	CardStyle   lipgloss.Style
	CardTitle   lipgloss.Style
	IncomeStyle lipgloss.Style
	MutedStyle  lipgloss.Style
	BarStyle    lipgloss.Style
	ChartStyle  lipgloss.Style
	SelectedRow lipgloss.Style
}

// DefaultStyles builds the dashboard styles from an accent and an income color.
func DefaultStyles(accent, incomeColor lipgloss.Color) Styles {
	return Styles{
		CardStyle:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1),
		CardTitle:   lipgloss.NewStyle().Faint(true),
		IncomeStyle: lipgloss.NewStyle().Foreground(incomeColor).Bold(true),
		MutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		BarStyle:    lipgloss.NewStyle().Foreground(accent),
		ChartStyle:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1),
		SelectedRow: lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

type Option func(*Model)

func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.Styles = s
		m.records.SetStyles(tableStyles(s))
	}
}

func WithCurrency(code string) Option {
	return func(m *Model) {
		m.currency = code
	}
}

func New(opts ...Option) Model {
	m := Model{
		Styles:   DefaultStyles(lipgloss.Color("#ffd644"), lipgloss.Color("#00ff00")),
		currency: format.DefaultCurrency,
		records: table.New(
			table.WithColumns(columns(0)),
			table.WithKeyMap(TableKeyMap()),
		),
	}
	m.records.SetStyles(tableStyles(m.Styles))

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// TableKeyMap is a navigation-only key map so dashboard shortcuts reach the
// parent model.
func TableKeyMap() table.KeyMap {
	return table.KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		LineDown:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "½ page up")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down")),
		GotoTop:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "go to start")),
		GotoBottom:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "go to end")),
	}
}

func tableStyles(s Styles) table.Styles {
	ts := table.DefaultStyles()
	ts.Selected = s.SelectedRow
	return ts
}

func columns(width int) []table.Column {
	notes := max(width-12-18-16-14-10, 12)
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Source", Width: 18},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Notes", Width: notes},
	}
}

func (m *Model) SetCurrency(code string) {
	m.currency = code
	m.setRows()
}

// SetResult replaces the aggregated data shown on the dashboard.
func (m *Model) SetResult(res income.Result) {
	m.result = res
	m.setRows()
}

func (m Model) Result() income.Result {
	return m.result
}

func (m *Model) setRows() {
	rows := make([]table.Row, len(m.result.Filtered))
	for i, r := range m.result.Filtered {
		rows[i] = table.Row{
			r.Date.Format(time.DateOnly),
			r.Source,
			titleCaser.String(r.Category),
			format.Currency(r.Amount, m.currency),
			r.Notes,
		}
	}
	m.records.SetRows(rows)
	if m.records.Cursor() >= len(rows) {
		m.records.SetCursor(max(len(rows)-1, 0))
	}
}

// SelectedRecord returns the record under the table cursor.
func (m Model) SelectedRecord() (api.IncomeRecord, bool) {
	i := m.records.Cursor()
	if i < 0 || i >= len(m.result.Filtered) {
		return api.IncomeRecord{}, false
	}
	return m.result.Filtered[i], true
}

func (m *Model) SetFocus(focus bool) {
	if focus {
		m.records.Focus()
	} else {
		m.records.Blur()
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.records.SetColumns(columns(width))
	m.records.SetWidth(width)
	m.records.SetHeight(max(height-headerHeight, minTableHeight))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	records := m.records.View()
	if len(m.result.Filtered) == 0 {
		records = m.Styles.MutedStyle.Render(emptyRecordsMsg)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.cardsView(),
		m.chartsView(),
		records,
	)
}

func (m Model) cardsView() string {
	s := m.result.Summary
	card := func(title, value string, style lipgloss.Style) string {
		return m.Styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				m.Styles.CardTitle.Render(title),
				style.Render(value),
			),
		)
	}

	ytdTitle := "YTD Income"
	if s.YTDYear != 0 {
		ytdTitle = fmt.Sprintf("YTD Income (%d)", s.YTDYear)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("Total Income · %s", m.result.Filter), format.Whole(s.Total, m.currency), m.Styles.IncomeStyle),
		card(ytdTitle, format.Whole(s.YTD, m.currency), m.Styles.IncomeStyle),
		card("Avg. Monthly", format.Whole(s.AverageMonthly, m.currency), m.Styles.IncomeStyle),
		card("Projected Annual", format.Whole(s.Projected, m.currency), m.Styles.IncomeStyle),
		card("Highest / Lowest Month",
			fmt.Sprintf("%s / %s", format.Whole(s.HighestMonth, m.currency), format.Whole(s.LowestMonth, m.currency)),
			m.Styles.IncomeStyle),
	)
}

func (m Model) chartsView() string {
	title := "Income Trend (Yearly)"
	if m.result.Filter.Year != income.All {
		title = "Income Trend (Monthly) · " + m.result.Filter.Year
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.Styles.ChartStyle.Render(chart.Bars(title, m.bucketRows(m.result.Trend), barWidth, m.Styles.BarStyle)),
		m.Styles.ChartStyle.Render(chart.Bars("Income by Source", m.bucketRows(m.result.Breakdown), barWidth, m.Styles.BarStyle)),
	)
}

func (m Model) bucketRows(buckets []income.Bucket) []chart.Row {
	rows := make([]chart.Row, len(buckets))
	for i, b := range buckets {
		rows[i] = chart.Row{
			Label:   b.Name,
			Value:   format.Float(b.Value),
			Display: format.Whole(b.Value, m.currency),
		}
	}
	return rows
}

// YearsHint lists the years available for filtering, newest first.
func (m Model) YearsHint() string {
	if len(m.result.AvailableYears) == 0 {
		return "no data"
	}
	years := make([]string, len(m.result.AvailableYears))
	for i, y := range m.result.AvailableYears {
		years[i] = strconv.Itoa(y)
	}
	return strings.Join(years, ", ")
}
