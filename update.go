package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/session"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// always check for quit key first
	if msg, ok := msg.(tea.KeyMsg); ok {
		if model, cmd, handled := handleKeyPress(msg, &m); handled {
			log.Debug("key press handled")
			return model, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case dashboardsLoadedMsg:
		return m.handleDashboardsLoaded(msg)

	case incomeLoadedMsg:
		return m.handleIncomeLoaded(msg)

	case accountsLoadedMsg:
		return m.handleAccountsLoaded(msg)

	case transactionsLoadedMsg:
		return m.handleTransactionsLoaded(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case csvIngestedMsg:
		return m.handleCSVIngested(msg)

	case authResultMsg:
		return m.handleAuthResult(msg)
	}

	var cmd tea.Cmd
	switch m.sessionState {
	case loginState, signupState:
		return updateAuthForm(msg, &m)

	case incomeFormState, transactionFormState, accountFormState, promptState:
		return updateForm(msg, &m)

	case confirmState:
		return updateConfirm(msg, &m)

	case incomeDashboard:
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd

	case bankDashboard:
		m.statement, cmd = m.statement.Update(msg)
		return m, cmd

	case configView:
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd

	case loading:
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func updateAuthForm(msg tea.Msg, m *model) (tea.Model, tea.Cmd) {
	if m.authForm == nil {
		return m, nil
	}

	form, cmd := m.authForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.authForm = f
	}

	if m.authForm.State != huh.StateCompleted {
		return m, cmd
	}

	signup := m.sessionState == signupState
	creds := api.Credentials{
		Email:    strings.TrimSpace(m.authForm.GetString("email")),
		Password: m.authForm.GetString("password"),
	}
	confirm := m.authForm.GetString("confirm")

	if signup {
		if err := session.ValidateSignup(creds, confirm); err != nil {
			m.authErr = err.Error()
			m.authForm = newSignupForm()
			return m, m.authForm.Init()
		}
	}

	log.Debug("authenticating", "email", creds.Email, "signup", signup)
	m.authErr = ""
	m.sessionState = loading
	return m, tea.Batch(m.authCmd(signup, creds, confirm), m.loadingSpinner.Tick)
}

func updateForm(msg tea.Msg, m *model) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	} else {
		log.Debug("form update did not return a form")
		return m, nil
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		return m.submitForm()
	}

	return m, cmd
}

// submitForm turns a completed form into a request, or an alert when the
// input does not convert.
func (m *model) submitForm() (tea.Model, tea.Cmd) {
	form := m.form
	state := m.sessionState
	editingIncome, editingTx := m.editingIncome, m.editingTx
	m.closeForm()

	switch state {
	case incomeFormState:
		in := incomeInputFromForm(form)
		if editingIncome != nil {
			rec, err := in.record(editingIncome.ID)
			if err != nil {
				m.alert = err.Error()
				return m, nil
			}
			return m, m.saveIncomeCmd(rec)
		}

		if strings.TrimSpace(in.Category) == "" && m.aiRecommender.IsEnabled() {
			probe := in
			probe.Category = "pending"
			if _, err := probe.record(""); err != nil {
				m.alert = err.Error()
				return m, nil
			}
			m.status = "Suggesting a category..."
			return m, m.suggestAndSaveIncomeCmd(in)
		}

		rec, err := in.record("")
		if err != nil {
			m.alert = err.Error()
			return m, nil
		}
		return m, m.saveIncomeCmd(rec)

	case transactionFormState:
		base := api.BankTransaction{AccountID: m.selectedAccountID, Source: api.ProvenanceManual}
		if editingTx != nil {
			base = *editingTx
		}
		tx, err := transactionInputFromForm(form).transaction(base)
		if err != nil {
			m.alert = err.Error()
			return m, nil
		}
		return m, m.saveTransactionCmd(tx)

	case accountFormState:
		acct, err := accountInputFromForm(form).account()
		if err != nil {
			m.alert = err.Error()
			return m, nil
		}
		return m, m.createAccountCmd(acct)

	case promptState:
		return m.submitPrompt(form)
	}

	return m, nil
}

func (m *model) submitPrompt(form *huh.Form) (tea.Model, tea.Cmd) {
	switch m.promptKind {
	case promptIncomeUpload, promptTransactionUpload:
		m.status = "Uploading..."
		return m, m.ingestCmd(m.promptKind, form.GetString("path"))

	case promptSearch:
		m.bankFilter.Search = strings.TrimSpace(form.GetString("search"))
		m.refreshBank()

	case promptDateRange:
		start, err := bank.ParseDate(form.GetString("start"))
		if err != nil {
			m.alert = err.Error()
			return m, nil
		}
		end, err := bank.ParseDate(form.GetString("end"))
		if err != nil {
			m.alert = err.Error()
			return m, nil
		}
		if !start.IsZero() && !end.IsZero() && start.After(end) {
			m.alert = "The start date is after the end date."
			return m, nil
		}
		// a typed range replaces the preset
		m.periodType = ""
		m.period = Period{}
		m.bankFilter.Start, m.bankFilter.End = start, end
		m.refreshBank()
	}

	return m, nil
}

func updateConfirm(msg tea.Msg, m *model) (tea.Model, tea.Cmd) {
	if m.confirm == nil {
		m.closeConfirm()
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateAborted:
		m.closeConfirm()
		return m, nil
	case huh.StateCompleted:
		pending := m.pending
		confirmed := m.confirm.GetBool("confirm")
		m.closeConfirm()
		if !confirmed {
			return m, nil
		}
		return m, pending
	}

	return m, cmd
}

func (m *model) openForm(state sessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	h, v := m.styles.docStyle.GetFrameSize()
	if m.width > 0 {
		form = form.WithWidth(m.width - h).WithHeight(m.height - v - takenHeight)
	}

	m.previousSessionState = m.sessionState
	m.form = form
	m.sessionState = state
	m.status = ""
	return m, m.form.Init()
}

// closeForm returns to the dashboard the form was opened from.
func (m *model) closeForm() {
	m.form = nil
	m.editingIncome = nil
	m.editingTx = nil
	m.sessionState = m.previousSessionState
	if !m.sessionState.isDashboard() {
		m.sessionState = incomeDashboard
	}
}

func (m *model) openIncomeForm(rec *api.IncomeRecord) (tea.Model, tea.Cmd) {
	m.editingIncome = rec
	form := newIncomeForm(rec, distinctCategories(m.incomeRecords), m.aiRecommender.IsEnabled())
	return m.openForm(incomeFormState, form)
}

func (m *model) openTransactionForm(tx *api.BankTransaction) (tea.Model, tea.Cmd) {
	m.editingTx = tx
	return m.openForm(transactionFormState, newTransactionForm(tx))
}

func (m *model) openAccountForm() (tea.Model, tea.Cmd) {
	return m.openForm(accountFormState, newAccountForm())
}

func (m *model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	m.promptKind = kind
	return m.openForm(promptState, newPromptForm(kind, m.bankFilter))
}

// askConfirm holds cmd until the user agrees to run it.
func (m *model) askConfirm(question string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.confirmReturn = m.sessionState
	m.confirm = newConfirmForm(question)
	m.pending = cmd
	m.sessionState = confirmState
	m.status = ""
	return m, m.confirm.Init()
}

func (m *model) closeConfirm() {
	m.confirm = nil
	m.pending = nil
	m.sessionState = m.confirmReturn
	if !m.sessionState.isDashboard() {
		m.sessionState = incomeDashboard
	}
}

// showDashboard switches between the income and bank views.
func (m *model) showDashboard(state sessionState) {
	m.overview.SetFocus(state == incomeDashboard)
	m.statement.SetFocus(state == bankDashboard)
	m.configView.SetFocus(false)
	m.previousSessionState = state
	m.sessionState = state
	m.status = ""
}
