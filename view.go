package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")

	if m.alert != "" {
		b.WriteString(m.styles.alertStyle.Render(m.alert + "\n\npress any key to continue"))
		b.WriteString("\n\n")
	}

	switch m.sessionState {
	case loginState, signupState:
		b.WriteString(m.authView())
	case incomeDashboard:
		b.WriteString(m.overview.View())
	case bankDashboard:
		b.WriteString(m.bankView())
	case incomeFormState, transactionFormState, accountFormState, promptState:
		if m.form != nil {
			b.WriteString(m.form.View())
		}
	case confirmState:
		if m.confirm != nil {
			b.WriteString(m.confirm.View())
		}
	case configView:
		b.WriteString(m.configView.View())
	case loading:
		b.WriteString(fmt.Sprintf("%s Loading data...", m.loadingSpinner.View()))
	case errorState:
		b.WriteString(m.styles.errorStyle.Render(fmt.Sprintf("%s - 'r' to retry, 'q' to quit", m.errorMsg)))
		return m.styles.docStyle.Render(b.String())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.statusStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys.forState(m.sessionState)))

	return m.styles.docStyle.Render(b.String())
}

func (m model) renderTitle() string {
	parts := []string{appName, m.sessionState.String()}

	switch m.sessionState {
	case incomeDashboard:
		parts = append(parts, m.incomeFilter.String())
	case bankDashboard:
		if m.periodType != "" {
			parts = append(parts, m.period.String(), m.periodType)
		}
	}

	if email := m.sess.Identity().Email; email != "" && m.sess.IsLoggedIn() {
		parts = append(parts, email)
	}

	return m.styles.titleStyle.Render(strings.Join(parts, " | "))
}

func (m model) authView() string {
	if m.authForm == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.authForm.View())
	if m.authErr != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.errorStyle.Render(m.authErr))
	}
	return m.styles.authStyle.Render(b.String())
}

func (m model) bankView() string {
	var filters []string
	if m.bankFilter.Search != "" {
		filters = append(filters, fmt.Sprintf("search %q", m.bankFilter.Search))
	}
	if !m.bankFilter.Start.IsZero() || !m.bankFilter.End.IsZero() {
		filters = append(filters, m.bankFilter.Range())
	}
	if len(filters) == 0 {
		return m.statement.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.mutedStyle.Render("Filters: "+strings.Join(filters, ", ")+"  (x to clear)"),
		m.statement.View(),
	)
}
