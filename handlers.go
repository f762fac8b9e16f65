package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/csvingest"
	"github.com/Rshep3087/findash/income"
	"github.com/Rshep3087/findash/session"
)

const sessionExpiredMsg = "Your session has expired. Please log in again."

// Message types for API responses.
type (
	incomeLoadedMsg struct {
		records []api.IncomeRecord
		gen     uint64
		err     error
	}

	accountsLoadedMsg struct {
		accounts []api.BankAccount
		gen      uint64
		err      error
	}

	transactionsLoadedMsg struct {
		accountID    string
		transactions []api.BankTransaction
		gen          uint64
		err          error
	}

	// dashboardsLoadedMsg carries the two lists fetched together on start.
	dashboardsLoadedMsg struct {
		income   incomeLoadedMsg
		accounts accountsLoadedMsg
	}

	mutationDoneMsg struct {
		status string
		// reload lists the loading keys to fetch again
		reload         []string
		clearSelection bool
		err            error
	}

	csvIngestedMsg struct {
		reload string
		result *api.UploadResult
		err    error
	}

	authResultMsg struct {
		signup bool
		err    error
	}
)

// Message handlers.
func (m model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	h, v := m.styles.docStyle.GetFrameSize()

	m.overview.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.statement.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.configView.SetSize(msg.Width-h, msg.Height-v-takenHeight)

	m.help.Width = msg.Width

	if m.form != nil {
		m.form = m.form.WithWidth(msg.Width - h).WithHeight(msg.Height - v - takenHeight)
	}
	if m.authForm != nil {
		m.authForm = m.authForm.WithWidth(min(msg.Width-h, 60))
	}

	return m, nil
}

func (m model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.sessionState != loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
	return m, cmd
}

func (m model) handleDashboardsLoaded(msg dashboardsLoadedMsg) (tea.Model, tea.Cmd) {
	incomeCmd := m.applyIncome(msg.income)
	accountsCmd := m.applyAccounts(msg.accounts)
	return m, tea.Batch(incomeCmd, accountsCmd)
}

func (m model) handleIncomeLoaded(msg incomeLoadedMsg) (tea.Model, tea.Cmd) {
	cmd := m.applyIncome(msg)
	return m, cmd
}

func (m model) handleAccountsLoaded(msg accountsLoadedMsg) (tea.Model, tea.Cmd) {
	cmd := m.applyAccounts(msg)
	return m, cmd
}

func (m model) handleTransactionsLoaded(msg transactionsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.fetches.done(transactionsKey, msg.gen) || msg.accountID != m.selectedAccountID {
		log.Debug("dropping stale transactions", "account", msg.accountID, "gen", msg.gen)
		return m, nil
	}
	if msg.err != nil {
		cmd := m.fetchFailed(transactionsKey, msg.err)
		return m, cmd
	}

	m.transactions = msg.transactions
	m.refreshBank()
	m.loadingState.set(transactionsKey)
	m.sessionState = m.checkIfLoading()
	return m, nil
}

func (m model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.requestFailed(msg.err)
		return m, cmd
	}

	m.status = msg.status
	if msg.clearSelection {
		m.selection.Clear()
		m.statement.SetSelection(m.selection)
	}

	cmds := make([]tea.Cmd, 0, len(msg.reload))
	for _, key := range msg.reload {
		cmds = append(cmds, m.reload(key))
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleCSVIngested(msg csvIngestedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if isAuthError(msg.err) {
			cmd := m.expireSession()
			return m, cmd
		}
		log.Error("csv ingest failed", "error", msg.err)
		var ingestErr *csvingest.Error
		if errors.As(msg.err, &ingestErr) {
			m.alert = ingestErr.Alert()
		} else {
			m.alert = msg.err.Error()
		}
		return m, nil
	}

	m.status = uploadStatus(msg.result)
	return m, m.reload(msg.reload)
}

func uploadStatus(res *api.UploadResult) string {
	if res == nil {
		return "Upload complete."
	}
	if res.Message != "" {
		return res.Message
	}
	return fmt.Sprintf("Imported %d rows.", res.InsertedCount)
}

func (m model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.authErr = authErrorMessage(m.sess, msg.err)
		if msg.signup {
			m.authForm = newSignupForm()
			m.sessionState = signupState
		} else {
			m.authForm = newLoginForm()
			m.sessionState = loginState
		}
		return m, m.authForm.Init()
	}

	m.authErr = ""
	m.authForm = nil
	m.sessionState = loading
	return m, tea.Batch(m.loadDashboards(), m.loadingSpinner.Tick)
}

// authErrorMessage prefers the session's message, which covers input errors
// caught before the request.
func authErrorMessage(sess *session.Session, err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := sess.LastError(); msg != "" {
		return msg
	}
	return err.Error()
}

// applyIncome stores a fetched income list. The filter defaults to the
// latest year the first time records arrive.
func (m *model) applyIncome(msg incomeLoadedMsg) tea.Cmd {
	if !m.fetches.done(incomeKey, msg.gen) {
		log.Debug("dropping stale income records", "gen", msg.gen)
		return nil
	}
	if msg.err != nil {
		return m.fetchFailed(incomeKey, msg.err)
	}

	m.incomeRecords = msg.records
	if !m.incomeFilterSet {
		m.incomeFilter = income.DefaultFilter(m.incomeRecords)
		m.incomeFilterSet = true
	}
	m.refreshIncome()

	m.loadingState.set(incomeKey)
	m.sessionState = m.checkIfLoading()
	return nil
}

// applyAccounts stores a fetched account list, keeps the selected account
// when it still exists and loads its transactions.
func (m *model) applyAccounts(msg accountsLoadedMsg) tea.Cmd {
	if !m.fetches.done(accountsKey, msg.gen) {
		log.Debug("dropping stale accounts", "gen", msg.gen)
		return nil
	}
	if msg.err != nil {
		return m.fetchFailed(accountsKey, msg.err)
	}

	m.accounts = msg.accounts
	m.loadingState.set(accountsKey)

	selected := bank.SelectAccount(m.accounts, m.selectedAccountID)
	changed := selected != m.selectedAccountID
	m.selectedAccountID = selected
	m.statement.SetAccounts(m.accounts, selected)

	if selected == "" {
		m.transactions = nil
		m.selection.Clear()
		m.refreshBank()
		m.loadingState.set(transactionsKey)
		m.sessionState = m.checkIfLoading()
		return nil
	}

	if changed {
		m.selection.Clear()
	}
	m.sessionState = m.checkIfLoading()
	return m.fetchTransactions()
}

func (m *model) refreshIncome() {
	res := m.incomeAgg.Aggregate(m.incomeRecords, m.incomeFilter)
	m.overview.SetResult(res)
}

func (m *model) refreshBank() {
	m.bankResult = m.bankAgg.Aggregate(m.transactions, m.bankFilter)
	m.statement.SetResult(m.bankResult, len(m.transactions))
	m.statement.SetSelection(m.selection)
}

// checkIfLoading returns the state to show once a fetch lands.
func (m *model) checkIfLoading() sessionState {
	if m.sessionState != loading {
		return m.sessionState
	}
	if ok, key := m.loadingState.allLoaded(); !ok {
		log.Debug("still loading", "key", key)
		return loading
	}
	if m.previousSessionState.isDashboard() {
		return m.previousSessionState
	}
	return incomeDashboard
}

// fetchFailed handles an error from one of the list fetches.
func (m *model) fetchFailed(key string, err error) tea.Cmd {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if isAuthError(err) {
		return m.expireSession()
	}

	log.Error("fetch failed", "key", key, "error", err)
	switch m.sessionState {
	case errorState:
		// the first failure is already on screen
		return nil
	case loading:
		m.sessionState = errorState
		m.errorMsg = fmt.Sprintf("Failed to load %s: %s", key, err)
		return nil
	}
	m.alert = fmt.Sprintf("Failed to load %s: %s", key, err)
	return nil
}

// requestFailed handles an error from a create, update or delete.
func (m *model) requestFailed(err error) tea.Cmd {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if isAuthError(err) {
		return m.expireSession()
	}
	log.Error("request failed", "error", err)
	m.alert = err.Error()
	return nil
}

func isAuthError(err error) bool {
	return errors.Is(err, api.ErrUnauthenticated) || api.IsUnauthorized(err)
}

// expireSession drops the token and every loaded list, then shows the login
// form.
func (m *model) expireSession() tea.Cmd {
	_, cmd := m.logout(sessionExpiredMsg)
	return cmd
}

func (m *model) logout(reason string) (tea.Model, tea.Cmd) {
	if err := m.sess.Logout(); err != nil {
		log.Error("failed to remove stored session", "error", err)
	}
	m.fetches.cancelAll()

	m.incomeRecords = nil
	m.incomeFilterSet = false
	m.accounts = nil
	m.selectedAccountID = ""
	m.transactions = nil
	m.bankFilter = bank.Filter{}
	m.periodType = ""
	m.selection.Clear()
	m.refreshIncome()
	m.refreshBank()
	m.statement.SetAccounts(nil, "")
	m.loadingState.reset()

	m.form, m.confirm, m.pending = nil, nil, nil
	m.alert, m.status, m.errorMsg = "", "", ""
	m.authErr = reason
	m.authForm = newLoginForm()
	m.previousSessionState = incomeDashboard
	m.sessionState = loginState
	return m, m.authForm.Init()
}

func (m *model) toggleAuthMode() (tea.Model, tea.Cmd) {
	m.authErr = ""
	m.sess.ClearError()
	if m.sessionState == loginState {
		m.sessionState = signupState
		m.authForm = newSignupForm()
	} else {
		m.sessionState = loginState
		m.authForm = newLoginForm()
	}
	return m, m.authForm.Init()
}

// API call functions.

// loadDashboards fetches income and accounts in parallel.
func (m model) loadDashboards() tea.Cmd {
	m.loadingState.unset(incomeKey)
	m.loadingState.unset(accountsKey)
	incomeCtx, incomeGen := m.fetches.start(incomeKey)
	accountsCtx, accountsGen := m.fetches.start(accountsKey)
	client := m.client

	return func() tea.Msg {
		msg := dashboardsLoadedMsg{
			income:   incomeLoadedMsg{gen: incomeGen},
			accounts: accountsLoadedMsg{gen: accountsGen},
		}

		var errGroup errgroup.Group
		errGroup.Go(func() error {
			msg.income.records, msg.income.err = client.ListIncome(incomeCtx)
			return msg.income.err
		})
		errGroup.Go(func() error {
			msg.accounts.accounts, msg.accounts.err = client.ListAccounts(accountsCtx)
			return msg.accounts.err
		})

		if err := errGroup.Wait(); err != nil {
			log.Debug("loading dashboards", "error", err)
		}
		return msg
	}
}

func (m model) fetchIncome() tea.Cmd {
	ctx, gen := m.fetches.start(incomeKey)
	client := m.client
	return func() tea.Msg {
		records, err := client.ListIncome(ctx)
		return incomeLoadedMsg{records: records, gen: gen, err: err}
	}
}

func (m model) fetchAccounts() tea.Cmd {
	ctx, gen := m.fetches.start(accountsKey)
	client := m.client
	return func() tea.Msg {
		accounts, err := client.ListAccounts(ctx)
		return accountsLoadedMsg{accounts: accounts, gen: gen, err: err}
	}
}

// fetchTransactions loads the selected account's statement, replacing any
// fetch still running for another account.
func (m model) fetchTransactions() tea.Cmd {
	m.loadingState.unset(transactionsKey)
	ctx, gen := m.fetches.start(transactionsKey)
	client := m.client
	accountID := m.selectedAccountID
	return func() tea.Msg {
		txs, err := client.ListTransactions(ctx, accountID)
		return transactionsLoadedMsg{accountID: accountID, transactions: txs, gen: gen, err: err}
	}
}

func (m model) reload(key string) tea.Cmd {
	switch key {
	case incomeKey:
		return m.fetchIncome()
	case accountsKey:
		return m.fetchAccounts()
	case transactionsKey:
		if m.selectedAccountID == "" {
			return nil
		}
		return m.fetchTransactions()
	}
	return nil
}

// mutation runs fn with a request timeout and reports the outcome.
func mutation(fn func(ctx context.Context) error, done mutationDoneMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			return mutationDoneMsg{err: err}
		}
		return done
	}
}

func (m model) saveIncomeCmd(rec api.IncomeRecord) tea.Cmd {
	client := m.client
	if rec.ID != "" {
		return mutation(func(ctx context.Context) error {
			_, err := client.UpdateIncome(ctx, rec)
			return err
		}, mutationDoneMsg{status: "Income record updated.", reload: []string{incomeKey}})
	}
	return mutation(func(ctx context.Context) error {
		_, err := client.CreateIncome(ctx, rec)
		return err
	}, mutationDoneMsg{status: "Income record added.", reload: []string{incomeKey}})
}

// suggestAndSaveIncomeCmd fills in the category with an AI suggestion
// before creating the record.
func (m model) suggestAndSaveIncomeCmd(in incomeInput) tea.Cmd {
	client := m.client
	ai := m.aiRecommender
	categories := distinctCategories(m.incomeRecords)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), aiRecommendationTimeout+requestTimeout)
		defer cancel()

		rec, err := ai.Suggest(ctx, in, categories)
		if err != nil {
			return mutationDoneMsg{err: fmt.Errorf("failed to suggest a category: %w", err)}
		}
		in.Category = rec.Category

		record, err := in.record("")
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		if _, err := client.CreateIncome(ctx, record); err != nil {
			return mutationDoneMsg{err: err}
		}

		return mutationDoneMsg{
			status: fmt.Sprintf("Income record added as %q (%.0f%% confidence).", rec.Category, rec.Confidence),
			reload: []string{incomeKey},
		}
	}
}

func (m model) deleteIncomeCmd(id string) tea.Cmd {
	client := m.client
	return mutation(func(ctx context.Context) error {
		return client.DeleteIncome(ctx, id)
	}, mutationDoneMsg{status: "Income record deleted.", reload: []string{incomeKey}})
}

func (m model) saveTransactionCmd(tx api.BankTransaction) tea.Cmd {
	client := m.client
	if tx.ID != "" {
		return mutation(func(ctx context.Context) error {
			_, err := client.UpdateTransaction(ctx, tx)
			return err
		}, mutationDoneMsg{status: "Transaction updated.", reload: []string{transactionsKey}})
	}
	return mutation(func(ctx context.Context) error {
		_, err := client.CreateTransaction(ctx, tx)
		return err
	}, mutationDoneMsg{status: "Transaction added.", reload: []string{transactionsKey}})
}

func (m model) deleteTransactionCmd(id string) tea.Cmd {
	client := m.client
	return mutation(func(ctx context.Context) error {
		return client.DeleteTransaction(ctx, id)
	}, mutationDoneMsg{status: "Transaction deleted.", reload: []string{transactionsKey}})
}

func (m model) bulkDeleteCmd(ids []string) tea.Cmd {
	client := m.client
	return mutation(func(ctx context.Context) error {
		return client.BulkDeleteTransactions(ctx, ids)
	}, mutationDoneMsg{
		status:         fmt.Sprintf("Deleted %d transactions.", len(ids)),
		reload:         []string{transactionsKey},
		clearSelection: true,
	})
}

func (m model) createAccountCmd(acct api.BankAccount) tea.Cmd {
	client := m.client
	return mutation(func(ctx context.Context) error {
		_, err := client.CreateAccount(ctx, acct)
		return err
	}, mutationDoneMsg{status: "Account added.", reload: []string{accountsKey}})
}

// deleteAccountCmd removes the account; the server drops its transactions.
func (m model) deleteAccountCmd(id string) tea.Cmd {
	client := m.client
	return mutation(func(ctx context.Context) error {
		return client.DeleteAccount(ctx, id)
	}, mutationDoneMsg{status: "Account deleted.", reload: []string{accountsKey}, clearSelection: true})
}

// ingestCmd uploads the CSV at path. The list is refetched when the result
// arrives so the refetch goes through the generation check.
func (m model) ingestCmd(kind promptKind, path string) tea.Cmd {
	bridge := &csvingest.Bridge{Upload: csvingest.IncomeUploader(m.client)}
	reload := incomeKey
	if kind == promptTransactionUpload {
		bridge.Upload = csvingest.TransactionUploader(m.client, m.selectedAccountID)
		reload = transactionsKey
	}
	path = expandHome(path, os.UserHomeDir)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*requestTimeout)
		defer cancel()

		res, err := bridge.Ingest(ctx, path)
		return csvIngestedMsg{reload: reload, result: res, err: err}
	}
}

func (m model) authCmd(signup bool, creds api.Credentials, confirm string) tea.Cmd {
	sess := m.sess
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if signup {
			err = sess.Signup(ctx, client, creds, confirm)
		} else {
			err = sess.Login(ctx, client, creds)
		}
		return authResultMsg{signup: signup, err: err}
	}
}
