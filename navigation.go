package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/income"
)

func (m *model) setIncomeFilter(f income.Filter) {
	m.incomeFilter = f
	m.incomeFilterSet = true
	m.status = ""
	m.refreshIncome()
}

func nextIncomeYear(m *model) (tea.Model, tea.Cmd, bool) {
	m.setIncomeFilter(m.incomeFilter.NextYear(m.overview.Result().AvailableYears))
	return m, nil, true
}

func previousIncomeYear(m *model) (tea.Model, tea.Cmd, bool) {
	m.setIncomeFilter(m.incomeFilter.PrevYear(m.overview.Result().AvailableYears))
	return m, nil, true
}

func nextIncomeMonth(m *model) (tea.Model, tea.Cmd, bool) {
	m.setIncomeFilter(m.incomeFilter.NextMonth())
	return m, nil, true
}

func previousIncomeMonth(m *model) (tea.Model, tea.Cmd, bool) {
	m.setIncomeFilter(m.incomeFilter.PrevMonth())
	return m, nil, true
}

func allIncomeMonths(m *model) (tea.Model, tea.Cmd, bool) {
	f := m.incomeFilter
	f.Month = income.All
	m.setIncomeFilter(f)
	return m, nil, true
}

// switchAccount selects the next or previous account and loads its
// statement. The selection belongs to one account and is dropped.
func switchAccount(m *model, step int) (tea.Model, tea.Cmd, bool) {
	id := bank.NextAccount(m.accounts, m.selectedAccountID, step)
	if id == "" || id == m.selectedAccountID {
		return m, nil, true
	}

	m.selectedAccountID = id
	m.transactions = nil
	m.selection.Clear()
	m.statement.SetAccounts(m.accounts, id)
	m.refreshBank()
	m.status = ""

	return m, m.fetchTransactions(), true
}

// switchPeriodType turns the period preset on, or flips it between month
// and year.
func switchPeriodType(m *model) (tea.Model, tea.Cmd, bool) {
	switch m.periodType {
	case "":
		m.periodType = monthlyPeriodType
		m.currentPeriod = latestActivity(m.transactions, time.Now())
	case monthlyPeriodType:
		m.periodType = annualPeriodType
	default:
		m.periodType = monthlyPeriodType
	}

	applyPeriod(m)
	return m, nil, true
}

// advancePeriod moves the preset forward by one month or year.
func advancePeriod(m *model) (tea.Model, tea.Cmd, bool) {
	return movePeriod(m, 1)
}

// retrievePreviousPeriod moves the preset back by one month or year.
func retrievePreviousPeriod(m *model) (tea.Model, tea.Cmd, bool) {
	return movePeriod(m, -1)
}

func movePeriod(m *model, step int) (tea.Model, tea.Cmd, bool) {
	if m.periodType == "" {
		return switchPeriodType(m)
	}
	m.currentPeriod = shiftPeriod(m.currentPeriod, m.periodType, step)
	applyPeriod(m)
	return m, nil, true
}

func applyPeriod(m *model) {
	m.period.setPeriod(m.currentPeriod, m.periodType)
	m.bankFilter = m.period.apply(m.bankFilter)
	m.refreshBank()
}

func clearBankFilters(m *model) (tea.Model, tea.Cmd, bool) {
	m.bankFilter = bank.Filter{}
	m.periodType = ""
	m.period = Period{}
	m.refreshBank()
	return m, nil, true
}
