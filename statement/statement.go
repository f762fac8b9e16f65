// Package statement renders the bank dashboard: account tabs, totals, the
// spending series and the selectable statement table.
package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/chart"
	"github.com/Rshep3087/findash/format"
)

// Empty table messages.
const (
	NoAccountMsg      = "Please select an account."
	NoTransactionsMsg = "No transactions found."
	NoMatchesMsg      = "No transactions match your filters."
)

const (
	barWidth       = 20
	headerHeight   = 15
	minTableHeight = 3
)

// Colors are lipgloss color strings for each role in the view.
type Colors struct {
	Accent string
	Credit string
	Debit  string
	Muted  string
}

type Model struct {
	styles    styles
	currency  string
	accounts  []api.BankAccount
	accountID string
	result    bank.Result
	total     int
	selection bank.Selection
	table     table.Model
}

type styles struct {
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	card        lipgloss.Style
	cardTitle   lipgloss.Style
	credit      lipgloss.Style
	debit       lipgloss.Style
	muted       lipgloss.Style
	bar         lipgloss.Style
	creditBar   lipgloss.Style
	chart       lipgloss.Style
	selectedRow lipgloss.Style
}

func New(colors Colors, currency string) Model {
	s := styles{
		tab:         lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(colors.Muted)),
		activeTab:   lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(colors.Accent)).Bold(true).Underline(true),
		card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1),
		cardTitle:   lipgloss.NewStyle().Faint(true),
		credit:      lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Credit)).Bold(true),
		debit:       lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Debit)).Bold(true),
		muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Muted)),
		bar:         lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Debit)),
		creditBar:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Credit)),
		chart:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1),
		selectedRow: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Accent)).Bold(true),
	}

	t := table.New(
		table.WithColumns(columns(0)),
		table.WithKeyMap(keyMap()),
	)
	tableStyle := table.DefaultStyles()
	tableStyle.Selected = s.selectedRow
	t.SetStyles(tableStyle)

	if currency == "" {
		currency = format.DefaultCurrency
	}

	return Model{
		styles:    s,
		currency:  currency,
		selection: bank.NewSelection(),
		table:     t,
	}
}

func keyMap() table.KeyMap {
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

func columns(width int) []table.Column {
	details := max(width-4-12-14-14-14-8, 20)
	return []table.Column{
		{Title: "", Width: 4},
		{Title: "Date", Width: 12},
		{Title: "Details", Width: details},
		{Title: "Debit", Width: 14},
		{Title: "Credit", Width: 14},
		{Title: "Balance", Width: 14},
		{Title: "Source", Width: 8},
	}
}

func (m *Model) SetFocus(focus bool) {
	if focus {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(max(height-headerHeight, minTableHeight))
}

// SetAccounts sets the account tabs and which one is active.
func (m *Model) SetAccounts(accounts []api.BankAccount, selected string) {
	m.accounts = accounts
	m.accountID = selected
}

// SetResult shows an aggregated statement. total is the unfiltered number
// of transactions in the account and picks the empty table message.
func (m *Model) SetResult(res bank.Result, total int) {
	m.result = res
	m.total = total
	m.setRows()
}

// SetSelection shares the dashboard's selection so the table can mark rows.
func (m *Model) SetSelection(sel bank.Selection) {
	m.selection = sel
	m.setRows()
}

func (m *Model) setRows() {
	rows := make([]table.Row, len(m.result.Filtered))
	for i, tx := range m.result.Filtered {
		mark := "[ ]"
		if m.selection.Has(tx.ID) {
			mark = "[x]"
		}
		rows[i] = table.Row{
			mark,
			tx.Date.Format(time.DateOnly),
			tx.Details,
			amountOrDash(tx.Debit.IsZero(), format.Currency(tx.Debit, m.currency)),
			amountOrDash(tx.Credit.IsZero(), format.Currency(tx.Credit, m.currency)),
			format.Currency(tx.Balance, m.currency),
			string(tx.Source),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func amountOrDash(zero bool, s string) string {
	if zero {
		return "-"
	}
	return s
}

// SelectedTransaction returns the transaction under the cursor.
func (m Model) SelectedTransaction() (api.BankTransaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.Filtered) {
		return api.BankTransaction{}, false
	}
	return m.result.Filtered[i], true
}

// EmptyMessage explains an empty table, or returns "" when there are rows.
func (m Model) EmptyMessage() string {
	switch {
	case m.accountID == "":
		return NoAccountMsg
	case m.total == 0:
		return NoTransactionsMsg
	case len(m.result.Filtered) == 0:
		return NoMatchesMsg
	}
	return ""
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	body := m.table.View()
	if msg := m.EmptyMessage(); msg != "" {
		body = m.styles.muted.Render(msg)
	}

	parts := []string{m.tabsView()}
	if m.accountID != "" {
		parts = append(parts, m.cardsView(), m.chartsView(), m.selectionView())
	}
	parts = append(parts, body)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) tabsView() string {
	if len(m.accounts) == 0 {
		return m.styles.muted.Render("No bank accounts yet. Press n to add one.")
	}

	tabs := make([]string, len(m.accounts))
	for i, a := range m.accounts {
		label := a.AccountName
		if a.AccountNumber != "" {
			label = fmt.Sprintf("%s ••%s", a.AccountName, a.AccountNumber)
		}
		if a.ID == m.accountID {
			tabs[i] = m.styles.activeTab.Render(label)
		} else {
			tabs[i] = m.styles.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) cardsView() string {
	s := m.result.Summary
	card := func(title, value string, style lipgloss.Style) string {
		return m.styles.card.Render(lipgloss.JoinVertical(lipgloss.Left, m.styles.cardTitle.Render(title), style.Render(value)))
	}

	net := m.styles.credit
	if s.NetBalance.IsNegative() {
		net = m.styles.debit
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Debit", format.Currency(s.TotalDebit, m.currency), m.styles.debit),
		card("Total Credit", format.Currency(s.TotalCredit, m.currency), m.styles.credit),
		card("Net Balance", format.Signed(s.NetBalance, m.currency), net),
		card("Date Range", m.result.Filter.Range(), m.styles.muted),
	)
}

func (m Model) chartsView() string {
	spending := make([]chart.Row, len(m.result.MonthlySpending))
	for i, b := range m.result.MonthlySpending {
		spending[i] = chart.Row{Label: b.Name, Value: format.Float(b.Value), Display: format.Whole(b.Value, m.currency)}
	}

	var comparison []string
	for _, c := range m.result.DebitVsCredit {
		comparison = append(comparison,
			chart.Bars(c.Name, []chart.Row{
				{Label: "Debit", Value: format.Float(c.Debit), Display: format.Whole(c.Debit, m.currency)},
				{Label: "Credit", Value: format.Float(c.Credit), Display: format.Whole(c.Credit, m.currency)},
			}, barWidth, m.styles.creditBar),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.chart.Render(chart.Bars("Monthly Spending", spending, barWidth, m.styles.bar)),
		m.styles.chart.Render(strings.Join(comparison, "\n")),
	)
}

func (m Model) selectionView() string {
	n := m.selection.Len()
	if n == 0 {
		return m.styles.muted.Render(fmt.Sprintf("%d transactions", len(m.result.Filtered)))
	}
	s := fmt.Sprintf("%d of %d selected", n, len(m.result.Filtered))
	if hidden := m.selection.Hidden(m.result.Filtered); hidden > 0 {
		s += fmt.Sprintf(" (%d hidden by filters)", hidden)
	}
	return m.styles.selectedRow.Render(s)
}
