package main

import "time"

// Period types
const (
	monthlyPeriodType = "month"
	annualPeriodType  = "year"
)

// Loading keys, one per remote list.
const (
	incomeKey       = "income"
	accountsKey     = "accounts"
	transactionsKey = "transactions"
)

const (
	requestTimeout          = 15 * time.Second
	aiRecommendationTimeout = 30 * time.Second
	anthropicMaxTokens      = 256
	maxConfidenceScore      = 100.0
	standardMargin          = 2
	// takenHeight is the room the title, status line and help use.
	takenHeight = 7
)

// Session states
type sessionState int

const (
	loginState sessionState = iota
	signupState
	incomeDashboard
	bankDashboard
	incomeFormState
	transactionFormState
	accountFormState
	promptState
	confirmState
	loading
	configView
	errorState
)

func (ss sessionState) String() string {
	switch ss {
	case loginState:
		return "login"
	case signupState:
		return "sign up"
	case incomeDashboard:
		return "income"
	case bankDashboard:
		return "bank"
	case incomeFormState:
		return "income record"
	case transactionFormState:
		return "transaction"
	case accountFormState:
		return "bank account"
	case promptState:
		return "prompt"
	case confirmState:
		return "confirm"
	case loading:
		return "loading"
	case configView:
		return "configuration"
	case errorState:
		return "error"
	}

	return "unknown"
}

// isDashboard reports whether ss shows one of the two dashboards.
func (ss sessionState) isDashboard() bool {
	return ss == incomeDashboard || ss == bankDashboard
}

// takesInput reports whether ss is a form that consumes every key.
func (ss sessionState) takesInput() bool {
	switch ss {
	case loginState, signupState, incomeFormState, transactionFormState, accountFormState, promptState, confirmState:
		return true
	}
	return false
}
