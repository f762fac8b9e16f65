package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/csvingest"
	"github.com/Rshep3087/findash/statement"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// asModel unwraps what Update returns; key handlers hand back a pointer.
func asModel(t *testing.T, tm tea.Model) model {
	t.Helper()
	switch m := tm.(type) {
	case model:
		return m
	case *model:
		return *m
	}
	t.Fatalf("unexpected model type %T", tm)
	return model{}
}

func sampleBackend() *fakeBackend {
	return &fakeBackend{
		income: []api.IncomeRecord{
			{ID: "i1", Date: date(2024, 1, 15), Source: "Acme", Category: "salary", Amount: decimal.NewFromInt(100)},
			{ID: "i2", Date: date(2024, 2, 20), Source: "Acme", Category: "salary", Amount: decimal.NewFromInt(200)},
			{ID: "i3", Date: date(2023, 12, 1), Source: "Side gig", Category: "freelance", Amount: decimal.NewFromInt(50)},
		},
		accounts: []api.BankAccount{
			{ID: "a1", AccountName: "Checking", AccountNumber: "00001234", IsActive: true},
			{ID: "a2", AccountName: "Savings", AccountNumber: "00005678", IsActive: true},
		},
		transactions: []api.BankTransaction{
			{ID: "t1", AccountID: "a1", Date: date(2024, 3, 2), Details: "Rent", Debit: decimal.NewFromInt(900), Balance: decimal.NewFromInt(100)},
			{ID: "t2", AccountID: "a1", Date: date(2024, 2, 28), Details: "Salary", Credit: decimal.NewFromInt(1000), Balance: decimal.NewFromInt(1000)},
			{ID: "t3", AccountID: "a1", Date: date(2024, 2, 3), Details: "Groceries", Debit: decimal.NewFromInt(40), Balance: decimal.NewFromInt(0)},
			{ID: "t4", AccountID: "a2", Date: date(2024, 1, 1), Details: "Interest", Credit: decimal.NewFromInt(5), Balance: decimal.NewFromInt(5)},
		},
	}
}

// loadedModel runs the initial load against b and returns the model on the
// income dashboard.
func loadedModel(t *testing.T, b *fakeBackend) model {
	t.Helper()

	m := newModel(newTestApp(t, b, "token"))
	be.Equal(t, loading, m.sessionState)

	updated, cmd := m.Update(m.loadDashboards()())
	m = asModel(t, updated)
	be.Equal(t, loading, m.sessionState)
	be.True(t, cmd != nil)

	updated, _ = m.Update(cmd())
	return asModel(t, updated)
}

func TestInitialLoad(t *testing.T) {
	m := loadedModel(t, sampleBackend())

	be.Equal(t, incomeDashboard, m.sessionState)
	be.Equal(t, "2024", m.incomeFilter.Year)
	be.Equal(t, 2, len(m.overview.Result().Filtered))
	be.True(t, m.overview.Result().Summary.Total.Equal(decimal.NewFromInt(300)))

	be.Equal(t, "a1", m.selectedAccountID)
	be.Equal(t, 3, len(m.transactions))
	be.True(t, m.bankResult.Summary.NetBalance.Equal(decimal.NewFromInt(60)))
}

func TestInitialLoadWithoutAccounts(t *testing.T) {
	b := sampleBackend()
	b.accounts = nil
	m := newModel(newTestApp(t, b, "token"))

	updated, cmd := m.Update(m.loadDashboards()())
	m = asModel(t, updated)

	be.True(t, cmd == nil)
	be.Equal(t, incomeDashboard, m.sessionState)
	be.Equal(t, "", m.selectedAccountID)
	be.Equal(t, statement.NoAccountMsg, m.statement.EmptyMessage())
}

func TestNewModelWithoutTokenShowsLogin(t *testing.T) {
	m := newModel(newTestApp(t, sampleBackend(), ""))
	be.Equal(t, loginState, m.sessionState)
	be.True(t, m.authForm != nil)
}

func TestStaleTransactionsAreDropped(t *testing.T) {
	m := loadedModel(t, sampleBackend())

	_, oldGen := m.fetches.start(transactionsKey)
	_, newGen := m.fetches.start(transactionsKey)

	stale := []api.BankTransaction{{ID: "old", AccountID: "a1", Date: date(2020, 1, 1)}}
	updated, _ := m.Update(transactionsLoadedMsg{accountID: "a1", transactions: stale, gen: oldGen})
	m = asModel(t, updated)
	be.Equal(t, 3, len(m.transactions))

	fresh := []api.BankTransaction{{ID: "new", AccountID: "a1", Date: date(2024, 6, 1)}}
	updated, _ = m.Update(transactionsLoadedMsg{accountID: "a1", transactions: fresh, gen: newGen})
	m = asModel(t, updated)
	be.Equal(t, 1, len(m.transactions))
	be.Equal(t, "new", m.transactions[0].ID)
}

func TestTransactionsForAnotherAccountAreDropped(t *testing.T) {
	m := loadedModel(t, sampleBackend())

	_, gen := m.fetches.start(transactionsKey)
	updated, _ := m.Update(transactionsLoadedMsg{accountID: "a2", transactions: nil, gen: gen})
	m = asModel(t, updated)
	be.Equal(t, 3, len(m.transactions))
}

func TestUnauthorizedLoadExpiresSession(t *testing.T) {
	b := sampleBackend()
	b.status = 401
	m := newModel(newTestApp(t, b, "token"))

	updated, _ := m.Update(m.loadDashboards()())
	m = asModel(t, updated)

	be.Equal(t, loginState, m.sessionState)
	be.Equal(t, sessionExpiredMsg, m.authErr)
	be.False(t, m.sess.IsLoggedIn())
}

func TestFailedLoadShowsErrorStateAndRetries(t *testing.T) {
	b := sampleBackend()
	b.status = 500
	m := newModel(newTestApp(t, b, "token"))

	updated, _ := m.Update(m.loadDashboards()())
	m = asModel(t, updated)
	be.Equal(t, errorState, m.sessionState)
	be.True(t, strings.Contains(m.errorMsg, "Failed to load"))

	updated, cmd := m.Update(keyPress("r"))
	m = asModel(t, updated)
	be.Equal(t, loading, m.sessionState)
	be.True(t, cmd != nil)
}

func TestDashboardNavigation(t *testing.T) {
	m := loadedModel(t, sampleBackend())

	updated, _ := m.Update(keyPress("b"))
	m = asModel(t, updated)
	be.Equal(t, bankDashboard, m.sessionState)

	updated, _ = m.Update(keyPress("g"))
	m = asModel(t, updated)
	be.Equal(t, configView, m.sessionState)

	updated, _ = m.Update(keyPress("esc"))
	m = asModel(t, updated)
	be.Equal(t, bankDashboard, m.sessionState)

	updated, _ = m.Update(keyPress("i"))
	m = asModel(t, updated)
	be.Equal(t, incomeDashboard, m.sessionState)
}

func TestHandleEscape(t *testing.T) {
	tests := []struct {
		name          string
		initialState  sessionState
		previousState sessionState
		form          *huh.Form
		expectedState sessionState
	}{
		{
			name:          "from income form",
			initialState:  incomeFormState,
			previousState: incomeDashboard,
			form:          &huh.Form{State: huh.StateNormal},
			expectedState: incomeDashboard,
		},
		{
			name:          "from transaction form",
			initialState:  transactionFormState,
			previousState: bankDashboard,
			form:          &huh.Form{State: huh.StateNormal},
			expectedState: bankDashboard,
		},
		{
			name:          "from prompt",
			initialState:  promptState,
			previousState: bankDashboard,
			form:          &huh.Form{State: huh.StateNormal},
			expectedState: bankDashboard,
		},
		{
			name:          "from config",
			initialState:  configView,
			previousState: bankDashboard,
			expectedState: bankDashboard,
		},
		{
			name:          "from config opened before any dashboard",
			initialState:  configView,
			previousState: loading,
			expectedState: incomeDashboard,
		},
		{
			name:          "from income dashboard",
			initialState:  incomeDashboard,
			previousState: incomeDashboard,
			expectedState: incomeDashboard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model{
				sessionState:         tt.initialState,
				previousSessionState: tt.previousState,
				form:                 tt.form,
			}

			resultModel, _ := handleEscape(&m)
			result := resultModel.(*model)

			be.Equal(t, tt.expectedState, result.sessionState)
			be.True(t, result.form == nil)
			if tt.form != nil {
				be.Equal(t, huh.StateAborted, tt.form.State)
			}
		})
	}
}

func TestEscapeClearsBankFilters(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	m.showDashboard(bankDashboard)
	m.bankFilter = bank.Filter{Search: "rent"}
	m.refreshBank()
	be.Equal(t, 1, len(m.bankResult.Filtered))

	updated, _ := m.Update(keyPress("esc"))
	m = asModel(t, updated)
	be.True(t, m.bankFilter.IsZero())
	be.Equal(t, 3, len(m.bankResult.Filtered))
}

func TestFormsSwallowDashboardKeys(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	updated, _ := m.Update(keyPress("a"))
	m = asModel(t, updated)
	be.Equal(t, incomeFormState, m.sessionState)

	// q types into the form instead of quitting
	_, _, handled := handleKeyPress(keyPress("q"), &m)
	be.False(t, handled)
	be.Equal(t, incomeFormState, m.sessionState)
}

func TestAlertSwallowsNextKey(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	m.alert = "Failed to read file."

	updated, cmd := m.Update(keyPress("b"))
	m = asModel(t, updated)
	be.Equal(t, "", m.alert)
	be.Equal(t, incomeDashboard, m.sessionState)
	be.True(t, cmd == nil)
}

func TestIncomeFilterKeys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantYear  string
		wantMonth string
		wantCount int
	}{
		{name: "next year wraps to all", keys: []string{"y"}, wantYear: "2023", wantMonth: "all", wantCount: 1},
		{name: "previous year", keys: []string{"Y"}, wantYear: "all", wantMonth: "all", wantCount: 3},
		{name: "next month", keys: []string{"]"}, wantYear: "2024", wantMonth: "0", wantCount: 1},
		{name: "previous month wraps to december", keys: []string{"["}, wantYear: "2024", wantMonth: "11", wantCount: 0},
		{name: "all months", keys: []string{"]", "]", "m"}, wantYear: "2024", wantMonth: "all", wantCount: 2},
		{name: "year change resets month", keys: []string{"]", "y"}, wantYear: "2023", wantMonth: "all", wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedModel(t, sampleBackend())
			for _, k := range tt.keys {
				updated, _ := m.Update(keyPress(k))
				m = asModel(t, updated)
			}
			be.Equal(t, tt.wantYear, m.incomeFilter.Year)
			be.Equal(t, tt.wantMonth, m.incomeFilter.Month)
			be.Equal(t, tt.wantCount, len(m.overview.Result().Filtered))
		})
	}
}

func TestDeleteIncomeAsksForConfirmation(t *testing.T) {
	b := sampleBackend()
	m := loadedModel(t, b)

	updated, _ := m.Update(keyPress("d"))
	m = asModel(t, updated)
	be.Equal(t, confirmState, m.sessionState)
	be.True(t, m.pending != nil)

	// escape cancels without calling the backend
	updated, _ = m.Update(keyPress("esc"))
	m = asModel(t, updated)
	be.Equal(t, incomeDashboard, m.sessionState)
	be.True(t, m.pending == nil)
	be.Equal(t, 3, len(b.income))
}

func TestBulkDelete(t *testing.T) {
	b := sampleBackend()
	m := loadedModel(t, b)
	m.showDashboard(bankDashboard)

	updated, _ := m.Update(keyPress("D"))
	m = asModel(t, updated)
	be.Equal(t, "No transactions selected.", m.status)
	be.Equal(t, bankDashboard, m.sessionState)

	updated, _ = m.Update(keyPress("A"))
	m = asModel(t, updated)
	be.Equal(t, 3, m.selection.Len())

	updated, _ = m.Update(keyPress("D"))
	m = asModel(t, updated)
	be.Equal(t, confirmState, m.sessionState)
	be.True(t, m.confirm != nil)

	done := m.pending()
	m.closeConfirm()
	be.Equal(t, bankDashboard, m.sessionState)

	updated, cmd := m.Update(done)
	m = asModel(t, updated)
	be.Equal(t, 0, m.selection.Len())
	be.Equal(t, "Deleted 3 transactions.", m.status)
	be.True(t, cmd != nil)
	be.Equal(t, 3, len(b.bulkDeleted))

	updated, _ = m.Update(cmd())
	m = asModel(t, updated)
	be.Equal(t, 0, len(m.transactions))
	be.Equal(t, statement.NoTransactionsMsg, m.statement.EmptyMessage())
}

func TestToggleSelectionKeepsHiddenRows(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	m.showDashboard(bankDashboard)

	updated, _ := m.Update(keyPress("space"))
	m = asModel(t, updated)
	be.True(t, m.selection.Has("t1"))

	m.bankFilter = bank.Filter{Search: "groceries"}
	m.refreshBank()
	be.True(t, m.selection.Has("t1"))
	be.Equal(t, 1, m.selection.Hidden(m.bankResult.Filtered))
}

func TestSwitchAccount(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	m.showDashboard(bankDashboard)
	m.selection.Toggle("t1")

	updated, cmd := m.Update(keyPress("tab"))
	m = asModel(t, updated)
	be.Equal(t, "a2", m.selectedAccountID)
	be.Equal(t, 0, m.selection.Len())
	be.True(t, cmd != nil)

	updated, _ = m.Update(cmd())
	m = asModel(t, updated)
	be.Equal(t, 1, len(m.transactions))
	be.Equal(t, "t4", m.transactions[0].ID)
}

func TestAddTransactionNeedsAccount(t *testing.T) {
	b := sampleBackend()
	b.accounts = nil
	m := newModel(newTestApp(t, b, "token"))
	updated, _ := m.Update(m.loadDashboards()())
	m = asModel(t, updated)
	m.showDashboard(bankDashboard)

	for _, k := range []string{"a", "u"} {
		updated, _ = m.Update(keyPress(k))
		m = asModel(t, updated)
		be.Equal(t, bankDashboard, m.sessionState)
		be.Equal(t, "Select an account first.", m.status)
	}
}

func TestPeriodKeys(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	m.showDashboard(bankDashboard)

	// the preset starts at the newest transaction's month
	updated, _ := m.Update(keyPress("p"))
	m = asModel(t, updated)
	be.Equal(t, monthlyPeriodType, m.periodType)
	be.Equal(t, "2024-03-01 - 2024-03-31", m.bankFilter.Range())
	be.Equal(t, 1, len(m.bankResult.Filtered))

	updated, _ = m.Update(keyPress("["))
	m = asModel(t, updated)
	be.Equal(t, "2024-02-01 - 2024-02-29", m.bankFilter.Range())
	be.Equal(t, 2, len(m.bankResult.Filtered))

	updated, _ = m.Update(keyPress("p"))
	m = asModel(t, updated)
	be.Equal(t, annualPeriodType, m.periodType)
	be.Equal(t, "2024-01-01 - 2024-12-31", m.bankFilter.Range())

	updated, _ = m.Update(keyPress("x"))
	m = asModel(t, updated)
	be.Equal(t, "", m.periodType)
	be.True(t, m.bankFilter.IsZero())
}

func TestLogoutClearsData(t *testing.T) {
	m := loadedModel(t, sampleBackend())

	updated, _ := m.Update(keyPress("L"))
	m = asModel(t, updated)

	be.Equal(t, loginState, m.sessionState)
	be.False(t, m.sess.IsLoggedIn())
	be.Equal(t, 0, len(m.incomeRecords))
	be.Equal(t, 0, len(m.transactions))
	be.Equal(t, "", m.selectedAccountID)
	be.Equal(t, "", m.authErr)
}

func TestToggleAuthMode(t *testing.T) {
	m := newModel(newTestApp(t, sampleBackend(), ""))

	resultModel, _, handled := handleKeyPress(tea.KeyMsg{Type: tea.KeyCtrlN}, &m)
	be.True(t, handled)
	be.Equal(t, signupState, resultModel.(*model).sessionState)

	resultModel, _, _ = handleKeyPress(tea.KeyMsg{Type: tea.KeyCtrlN}, &m)
	be.Equal(t, loginState, resultModel.(*model).sessionState)
}

func TestAuthResult(t *testing.T) {
	t.Run("login failure stays on the form", func(t *testing.T) {
		m := newModel(newTestApp(t, sampleBackend(), ""))
		msg := m.authCmd(false, api.Credentials{Email: "me@example.com", Password: "wrong"}, "")()

		updated, _ := m.Update(msg)
		m = asModel(t, updated)
		be.Equal(t, loginState, m.sessionState)
		be.Equal(t, "Invalid credentials", m.authErr)
		be.False(t, m.sess.IsLoggedIn())
	})

	t.Run("signup mismatch never reaches the server", func(t *testing.T) {
		m := newModel(newTestApp(t, sampleBackend(), ""))
		msg := m.authCmd(true, api.Credentials{Email: "me@example.com", Password: "secret"}, "other")()

		updated, _ := m.Update(msg)
		m = asModel(t, updated)
		be.Equal(t, signupState, m.sessionState)
		be.Equal(t, "Passwords don't match.", m.authErr)
	})

	t.Run("login success loads dashboards", func(t *testing.T) {
		m := newModel(newTestApp(t, sampleBackend(), ""))
		msg := m.authCmd(false, api.Credentials{Email: "me@example.com", Password: "secret"}, "")()

		updated, cmd := m.Update(msg)
		m = asModel(t, updated)
		be.Equal(t, loading, m.sessionState)
		be.True(t, m.sess.IsLoggedIn())
		be.True(t, cmd != nil)
	})
}

func TestCSVIngest(t *testing.T) {
	b := sampleBackend()
	m := loadedModel(t, b)

	path := filepath.Join(t.TempDir(), "income.csv")
	be.NilErr(t, os.WriteFile(path, []byte("date,source,amount\n"), 0o600))

	updated, cmd := m.Update(m.ingestCmd(promptIncomeUpload, path)())
	m = asModel(t, updated)
	be.Equal(t, "Imported", m.status)
	be.True(t, cmd != nil)
	be.Equal(t, "date,source,amount\n", b.uploads[0])

	updated, _ = m.Update(m.ingestCmd(promptIncomeUpload, filepath.Join(t.TempDir(), "missing.csv"))())
	m = asModel(t, updated)
	be.Equal(t, (&csvingest.Error{Op: csvingest.OpRead}).Alert(), m.alert)
}

func TestMutationFailureShowsAlert(t *testing.T) {
	m := loadedModel(t, sampleBackend())

	updated, cmd := m.Update(mutationDoneMsg{err: &api.Error{StatusCode: 500, Message: "Server error"}})
	m = asModel(t, updated)
	be.Equal(t, "Server error", m.alert)
	be.True(t, cmd == nil)
	be.Equal(t, incomeDashboard, m.sessionState)
}

func TestViewRendersState(t *testing.T) {
	m := loadedModel(t, sampleBackend())
	be.True(t, strings.Contains(m.View(), "findash | income | All Months 2024"))

	m.showDashboard(bankDashboard)
	be.True(t, strings.Contains(m.View(), "findash | bank"))

	m.alert = "Failed to upload CSV file."
	be.True(t, strings.Contains(m.View(), "Failed to upload CSV file."))
}
