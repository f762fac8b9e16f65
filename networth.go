package main

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/format"
)

// NetWorthData is the sum of every account's closing balance.
type NetWorthData struct {
	NetWorth         *money.Money
	TotalAssets      *money.Money
	TotalLiabilities *money.Money
	Currency         string
	Accounts         []*AccountSummary
}

// AccountSummary is one account's contribution to net worth.
type AccountSummary struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Amount *money.Money `json:"-"` // Not exported in JSON, used for calculations
	// AsOf is the date of the transaction the balance was read from, empty
	// for accounts without transactions.
	AsOf string `json:"as_of,omitempty"`
}

// IsLiability reports whether the account is overdrawn.
func (a *AccountSummary) IsLiability() bool {
	return a.Amount.IsNegative()
}

// NetWorthJSONSummary converts NetWorthData to a JSON-friendly format for CLI output.
type NetWorthJSONSummary struct {
	NetWorth         string                `json:"net_worth"`
	Currency         string                `json:"currency"`
	TotalAssets      string                `json:"total_assets"`
	TotalLiabilities string                `json:"total_liabilities"`
	Accounts         []*AccountJSONSummary `json:"accounts,omitempty"`
}

// AccountJSONSummary is the JSON-friendly version of AccountSummary.
type AccountJSONSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	AsOf   string `json:"as_of,omitempty"`
}

// ToJSON converts NetWorthData to JSON-friendly format.
func (nw *NetWorthData) ToJSON() *NetWorthJSONSummary {
	summary := &NetWorthJSONSummary{
		NetWorth:         nw.NetWorth.Display(),
		Currency:         nw.Currency,
		TotalAssets:      nw.TotalAssets.Display(),
		TotalLiabilities: nw.TotalLiabilities.Display(),
	}
	for _, a := range nw.Accounts {
		summary.Accounts = append(summary.Accounts, &AccountJSONSummary{
			ID:     a.ID,
			Name:   a.Name,
			Amount: a.Amount.Display(),
			AsOf:   a.AsOf,
		})
	}
	return summary
}

// closingBalance is the balance after the newest transaction. Ties go to the
// transaction listed first, matching the statement order.
func closingBalance(txs []api.BankTransaction) (api.BankTransaction, bool) {
	if len(txs) == 0 {
		return api.BankTransaction{}, false
	}
	latest := txs[0]
	for _, tx := range txs[1:] {
		if tx.Date.After(latest.Date) {
			latest = tx
		}
	}
	return latest, true
}

// netWorthTotals accumulates balances that all share one currency.
type netWorthTotals struct {
	net, assets, liabilities *money.Money
}

func newNetWorthTotals(code string) *netWorthTotals {
	return &netWorthTotals{
		net:         money.New(0, code),
		assets:      money.New(0, code),
		liabilities: money.New(0, code),
	}
}

// add counts amount towards net worth and towards either assets or, when
// negative, liabilities. The totals are unchanged on error.
func (t *netWorthTotals) add(amount *money.Money) error {
	net, err := t.net.Add(amount)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		liabilities, err := t.liabilities.Add(amount.Absolute())
		if err != nil {
			return err
		}
		t.liabilities = liabilities
	} else {
		assets, err := t.assets.Add(amount)
		if err != nil {
			return err
		}
		t.assets = assets
	}
	t.net = net
	return nil
}

// calculateNetWorthData adds up closing balances. statements maps account
// ids to their transactions; accounts missing from it count as zero.
// includeBreakdown keeps the per-account rows, largest first.
func calculateNetWorthData(
	accounts []api.BankAccount,
	statements map[string][]api.BankTransaction,
	currency string,
	includeBreakdown bool,
) (*NetWorthData, error) {
	code := format.Money(decimal.Zero, currency).Currency().Code
	totals := newNetWorthTotals(code)

	var summaries []*AccountSummary
	for _, acct := range accounts {
		summary := &AccountSummary{ID: acct.ID, Name: acct.AccountName, Amount: money.New(0, code)}
		if tx, ok := closingBalance(statements[acct.ID]); ok {
			summary.Amount = format.Money(tx.Balance, code)
			summary.AsOf = tx.Date.Format(time.DateOnly)
		}

		if err := totals.add(summary.Amount); err != nil {
			return nil, fmt.Errorf("adding balance of account %s: %w", acct.ID, err)
		}
		if includeBreakdown {
			summaries = append(summaries, summary)
		}
	}

	// Sort breakdown by amount (descending)
	slices.SortStableFunc(summaries, func(a, b *AccountSummary) int {
		return cmp.Compare(b.Amount.Amount(), a.Amount.Amount())
	})

	return &NetWorthData{
		NetWorth:         totals.net,
		TotalAssets:      totals.assets,
		TotalLiabilities: totals.liabilities,
		Currency:         code,
		Accounts:         summaries,
	}, nil
}
