package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
)

type keyMap struct {
	income    key.Binding
	bank      key.Binding
	config    key.Binding
	refresh   key.Binding
	logout    key.Binding
	escape    key.Binding
	fullHelp  key.Binding
	quit      key.Binding
	forceQuit key.Binding

	toggleAuth key.Binding

	add    key.Binding
	edit   key.Binding
	delete key.Binding
	upload key.Binding

	nextYear  key.Binding
	prevYear  key.Binding
	nextMonth key.Binding
	prevMonth key.Binding
	allMonths key.Binding

	nextAccount    key.Binding
	prevAccount    key.Binding
	newAccount     key.Binding
	deleteAccount  key.Binding
	search         key.Binding
	dateRange      key.Binding
	switchPeriod   key.Binding
	nextPeriod     key.Binding
	previousPeriod key.Binding
	clearFilters   key.Binding
	toggleSelect   key.Binding
	selectAll      key.Binding
	bulkDelete     key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.income,
		km.bank,
		km.quit,
		km.fullHelp,
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			km.income,
			km.bank,
			km.config,
			km.refresh,
			km.logout,
			km.quit,
			km.fullHelp,
		},
	}
}

// stateKeyMap shows the bindings that apply to one screen.
type stateKeyMap struct {
	keyMap
	state sessionState
}

func (km keyMap) forState(state sessionState) help.KeyMap {
	return stateKeyMap{keyMap: km, state: state}
}

func (s stateKeyMap) ShortHelp() []key.Binding {
	switch s.state {
	case loginState, signupState:
		return []key.Binding{s.toggleAuth, s.forceQuit}
	case incomeFormState, transactionFormState, accountFormState, promptState, confirmState:
		return []key.Binding{s.escape, s.forceQuit}
	case incomeDashboard:
		return []key.Binding{s.bank, s.nextYear, s.nextMonth, s.add, s.edit, s.delete, s.upload, s.quit, s.fullHelp}
	case bankDashboard:
		return []key.Binding{s.income, s.nextAccount, s.search, s.toggleSelect, s.add, s.delete, s.upload, s.quit, s.fullHelp}
	case errorState:
		return []key.Binding{s.refresh, s.logout, s.quit}
	}
	return s.keyMap.ShortHelp()
}

func (s stateKeyMap) FullHelp() [][]key.Binding {
	switch s.state {
	case incomeDashboard:
		return [][]key.Binding{
			s.keyMap.FullHelp()[0],
			{s.nextYear, s.prevYear, s.nextMonth, s.prevMonth, s.allMonths},
			{s.add, s.edit, s.delete, s.upload},
		}
	case bankDashboard:
		return [][]key.Binding{
			s.keyMap.FullHelp()[0],
			{s.nextAccount, s.prevAccount, s.newAccount, s.deleteAccount},
			{s.search, s.dateRange, s.switchPeriod, s.nextPeriod, s.previousPeriod, s.clearFilters},
			{s.toggleSelect, s.selectAll, s.bulkDelete},
			{s.add, s.edit, s.delete, s.upload},
		}
	}
	return [][]key.Binding{s.ShortHelp()}
}

func initializeKeyMap() keyMap {
	keys := keyMap{
		income:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "income")),
		bank:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bank")),
		config:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "configuration")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		fullHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		toggleAuth: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "login / sign up")),

		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		upload: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload csv")),

		nextYear:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "next year")),
		prevYear:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "previous year")),
		nextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		prevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous month")),
		allMonths: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "all months")),

		nextAccount:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next account")),
		prevAccount:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous account")),
		newAccount:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new account")),
		deleteAccount:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete account")),
		search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		dateRange:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "date range")),
		switchPeriod:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "month / year")),
		nextPeriod:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next period")),
		previousPeriod: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous period")),
		clearFilters:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		toggleSelect:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		selectAll:      key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
		bulkDelete:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
	}
	return keys
}

// handleKeyPress runs the key against the current screen. handled is false
// when the key should fall through to the focused component.
func handleKeyPress(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd, bool) {
	log.Debug("key pressed", "key", msg.String(), "state", m.sessionState)

	if key.Matches(msg, m.keys.forceQuit) {
		m.fetches.cancelAll()
		return m, tea.Quit, true
	}

	// any key dismisses an alert
	if m.alert != "" {
		m.alert = ""
		return m, nil, true
	}

	if isInputBlocked(m) {
		return handleFormKeys(msg, m)
	}

	if key.Matches(msg, m.keys.quit) {
		m.fetches.cancelAll()
		return m, tea.Quit, true
	}

	if m.sessionState == loading {
		return m, nil, true
	}

	if key.Matches(msg, m.keys.escape) {
		model, cmd := handleEscape(m)
		return model, cmd, true
	}

	if model, cmd, ok := handleSessionStateKeys(msg, m); ok {
		return model, cmd, true
	}

	switch m.sessionState {
	case incomeDashboard:
		return handleIncomeKeys(msg, m)
	case bankDashboard:
		return handleBankKeys(msg, m)
	}

	return m, nil, false
}

// isInputBlocked reports whether a form owns the keyboard.
func isInputBlocked(m *model) bool {
	return m.sessionState.takesInput()
}

func handleFormKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.escape):
		model, cmd := handleEscape(m)
		return model, cmd, true

	case key.Matches(msg, m.keys.toggleAuth):
		if m.sessionState == loginState || m.sessionState == signupState {
			model, cmd := m.toggleAuthMode()
			return model, cmd, true
		}
	}

	return m, nil, false
}

func handleSessionStateKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.income):
		if m.sessionState != incomeDashboard && m.sessionState != errorState {
			m.showDashboard(incomeDashboard)
			return m, nil, true
		}

	case key.Matches(msg, m.keys.bank):
		if m.sessionState != bankDashboard && m.sessionState != errorState {
			m.showDashboard(bankDashboard)
			return m, nil, true
		}

	case key.Matches(msg, m.keys.config):
		if m.sessionState != configView && m.sessionState != errorState {
			m.previousSessionState = m.sessionState
			m.configView.SetConfig(m.cfg, m.sess.Token())
			m.configView.SetFocus(true)
			m.sessionState = configView
			return m, nil, true
		}

	case key.Matches(msg, m.keys.refresh):
		if m.sessionState == errorState {
			m.sessionState = loading
			m.errorMsg = ""
			return m, tea.Batch(m.loadDashboards(), m.loadingSpinner.Tick), true
		}
		return m, m.loadDashboards(), true

	case key.Matches(msg, m.keys.logout):
		model, cmd := m.logout("")
		return model, cmd, true

	case key.Matches(msg, m.keys.fullHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil, true
	}

	return m, nil, false
}

func handleIncomeKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.nextYear):
		return nextIncomeYear(m)
	case key.Matches(msg, m.keys.prevYear):
		return previousIncomeYear(m)
	case key.Matches(msg, m.keys.nextMonth):
		return nextIncomeMonth(m)
	case key.Matches(msg, m.keys.prevMonth):
		return previousIncomeMonth(m)
	case key.Matches(msg, m.keys.allMonths):
		return allIncomeMonths(m)

	case key.Matches(msg, m.keys.add):
		model, cmd := m.openIncomeForm(nil)
		return model, cmd, true

	case key.Matches(msg, m.keys.edit):
		if rec, ok := m.overview.SelectedRecord(); ok {
			model, cmd := m.openIncomeForm(&rec)
			return model, cmd, true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.delete):
		rec, ok := m.overview.SelectedRecord()
		if !ok {
			return m, nil, true
		}
		model, cmd := m.askConfirm("Are you sure you want to delete this record?", m.deleteIncomeCmd(rec.ID))
		return model, cmd, true

	case key.Matches(msg, m.keys.upload):
		model, cmd := m.openPrompt(promptIncomeUpload)
		return model, cmd, true
	}

	return m, nil, false
}

func handleBankKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.nextAccount):
		return switchAccount(m, 1)
	case key.Matches(msg, m.keys.prevAccount):
		return switchAccount(m, -1)

	case key.Matches(msg, m.keys.newAccount):
		model, cmd := m.openAccountForm()
		return model, cmd, true

	case key.Matches(msg, m.keys.deleteAccount):
		if m.selectedAccountID == "" {
			return m, nil, true
		}
		model, cmd := m.askConfirm(
			"Are you sure you want to delete this account and all its transactions?",
			m.deleteAccountCmd(m.selectedAccountID),
		)
		return model, cmd, true

	case key.Matches(msg, m.keys.search):
		model, cmd := m.openPrompt(promptSearch)
		return model, cmd, true
	case key.Matches(msg, m.keys.dateRange):
		model, cmd := m.openPrompt(promptDateRange)
		return model, cmd, true
	case key.Matches(msg, m.keys.switchPeriod):
		return switchPeriodType(m)
	case key.Matches(msg, m.keys.nextPeriod):
		return advancePeriod(m)
	case key.Matches(msg, m.keys.previousPeriod):
		return retrievePreviousPeriod(m)
	case key.Matches(msg, m.keys.clearFilters):
		return clearBankFilters(m)

	case key.Matches(msg, m.keys.toggleSelect):
		if tx, ok := m.statement.SelectedTransaction(); ok {
			m.selection.Toggle(tx.ID)
			m.statement.SetSelection(m.selection)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.selectAll):
		m.selection.ToggleAll(m.bankResult.Filtered)
		m.statement.SetSelection(m.selection)
		return m, nil, true

	case key.Matches(msg, m.keys.bulkDelete):
		n := m.selection.Len()
		if n == 0 {
			m.status = "No transactions selected."
			return m, nil, true
		}
		model, cmd := m.askConfirm(
			bulkDeleteQuestion(n),
			m.bulkDeleteCmd(m.selection.IDs()),
		)
		return model, cmd, true
	}

	if m.selectedAccountID == "" {
		if key.Matches(msg, m.keys.add, m.keys.upload) {
			m.status = "Select an account first."
			return m, nil, true
		}
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.add):
		model, cmd := m.openTransactionForm(nil)
		return model, cmd, true

	case key.Matches(msg, m.keys.edit):
		if tx, ok := m.statement.SelectedTransaction(); ok {
			model, cmd := m.openTransactionForm(&tx)
			return model, cmd, true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.delete):
		tx, ok := m.statement.SelectedTransaction()
		if !ok {
			return m, nil, true
		}
		model, cmd := m.askConfirm("Are you sure you want to delete this transaction?", m.deleteTransactionCmd(tx.ID))
		return model, cmd, true

	case key.Matches(msg, m.keys.upload):
		model, cmd := m.openPrompt(promptTransactionUpload)
		return model, cmd, true
	}

	return m, nil, false
}

func bulkDeleteQuestion(n int) string {
	if n == 1 {
		return "Are you sure you want to delete 1 transaction?"
	}
	return fmt.Sprintf("Are you sure you want to delete %d transactions?", n)
}

// handleEscape backs out of forms and secondary screens.
func handleEscape(m *model) (tea.Model, tea.Cmd) {
	switch m.sessionState {
	case loginState, signupState:
		return m, nil

	case incomeFormState, transactionFormState, accountFormState, promptState:
		log.Debug("aborting form", "state", m.sessionState)
		if m.form != nil {
			m.form.State = huh.StateAborted
		}
		m.closeForm()
		return m, nil

	case confirmState:
		if m.confirm != nil {
			m.confirm.State = huh.StateAborted
		}
		m.closeConfirm()
		return m, nil

	case configView:
		m.configView.SetFocus(false)
		m.sessionState = m.previousSessionState
		if !m.sessionState.isDashboard() {
			m.sessionState = incomeDashboard
		}
		return m, nil

	case bankDashboard:
		if !m.bankFilter.IsZero() {
			model, cmd, _ := clearBankFilters(m)
			return model, cmd
		}
	}

	return m, nil
}
