package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/config"
	"github.com/Rshep3087/findash/income"
	"github.com/Rshep3087/findash/overview"
	"github.com/Rshep3087/findash/session"
	"github.com/Rshep3087/findash/statement"
)

type model struct {
	cfg    config.Config
	theme  Theme
	styles styles

	// loadingSpinner is shown while the dashboards load
	loadingSpinner spinner.Model

	keys keyMap
	help help.Model

	width, height int

	// sessionState is the current state of the session
	sessionState         sessionState
	previousSessionState sessionState
	loadingState         loadingState
	fetches              fetchTracker

	// errorMsg is shown in errorState
	errorMsg string
	// alert is a blocking banner dismissed by any key
	alert string
	// status is a one-line note about the last action
	status string

	sess          *session.Session
	client        *api.Client
	aiRecommender *AIRecommender

	authForm *huh.Form
	authErr  string

	// form is the open income, transaction, account or prompt form
	form          *huh.Form
	promptKind    promptKind
	editingIncome *api.IncomeRecord
	editingTx     *api.BankTransaction

	confirm       *huh.Form
	pending       tea.Cmd
	confirmReturn sessionState

	incomeRecords   []api.IncomeRecord
	incomeFilter    income.Filter
	incomeFilterSet bool
	incomeAgg       *income.Aggregator
	overview        overview.Model

	accounts          []api.BankAccount
	selectedAccountID string
	transactions      []api.BankTransaction
	bankFilter        bank.Filter
	bankAgg           *bank.Aggregator
	bankResult        bank.Result
	selection         bank.Selection
	statement         statement.Model

	// period is the preset date range applied with p, [ and ]
	period        Period
	periodType    string
	currentPeriod time.Time

	configView config.Model
}

func newModel(a *app) model {
	theme := newTheme(a.cfg.Colors)

	m := model{
		cfg:            a.cfg,
		theme:          theme,
		styles:         createStyles(theme),
		loadingSpinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:           initializeKeyMap(),
		help:           createHelpModel(theme),
		loadingState:   newLoadingState(incomeKey, accountsKey, transactionsKey),
		fetches:        newFetchTracker(),
		sess:           a.sess,
		client:         a.client,
		aiRecommender:  a.ai,
		incomeAgg:      income.NewAggregator(),
		overview: overview.New(
			overview.WithStyles(createOverviewStyles(theme)),
			overview.WithCurrency(a.cfg.Currency),
		),
		bankAgg:       bank.NewAggregator(),
		selection:     bank.NewSelection(),
		statement:     statement.New(createStatementColors(theme), a.cfg.Currency),
		currentPeriod: time.Now(),
		configView:    config.New(string(theme.Accent)),
	}

	m.overview.SetFocus(true)

	if a.sess.IsLoggedIn() {
		m.sessionState = loading
	} else {
		m.sessionState = loginState
		m.authForm = newLoginForm()
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.sessionState == loginState {
		return tea.Batch(m.authForm.Init(), tea.WindowSize())
	}

	return tea.Batch(
		m.loadDashboards(),
		m.loadingSpinner.Tick,
		tea.WindowSize(),
	)
}

// runTUI starts the dashboard and blocks until it exits.
func runTUI(ctx context.Context, a *app) error {
	if a.cfg.Debug {
		f, err := tea.LogToFile(appName+".log", "debug")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	m := newModel(a)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func main() {
	Execute()
}
