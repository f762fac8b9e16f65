// Package bank derives the bank dashboard from one account's transactions.
package bank

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
)

// ComparisonBucket names the single debit-vs-credit bucket.
const ComparisonBucket = "Comparison"

// Filter narrows the statement. Zero Start or End leaves that side open.
type Filter struct {
	Search string    `json:"search,omitempty"`
	Start  time.Time `json:"start,omitzero"`
	End    time.Time `json:"end,omitzero"`
}

// IsZero reports whether the filter lets every transaction through.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.Start.IsZero() && f.End.IsZero()
}

// Range describes the date bounds, e.g. "2024-03-01 - 2024-03-31".
func (f Filter) Range() string {
	if f.Start.IsZero() && f.End.IsZero() {
		return "all dates"
	}
	start, end := "…", "…"
	if !f.Start.IsZero() {
		start = f.Start.Format(time.DateOnly)
	}
	if !f.End.IsZero() {
		end = f.End.Format(time.DateOnly)
	}
	return fmt.Sprintf("%s - %s", start, end)
}

// startBound is the first instant of the start day.
func (f Filter) startBound() time.Time {
	s := f.Start
	return time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
}

// endBound is the last instant of the end day.
func (f Filter) endBound() time.Time {
	e := f.End
	return time.Date(e.Year(), e.Month(), e.Day()+1, 0, 0, 0, 0, e.Location()).Add(-time.Nanosecond)
}

// Matches reports whether tx passes the filter.
func (f Filter) Matches(tx api.BankTransaction) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(tx.Details), strings.ToLower(f.Search)) {
		return false
	}
	if !f.Start.IsZero() && tx.Date.Before(f.startBound()) {
		return false
	}
	if !f.End.IsZero() && tx.Date.After(f.endBound()) {
		return false
	}
	return true
}

// ParseDate parses a YYYY-MM-DD bound. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// Summary holds the three dashboard cards.
type Summary struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	// NetBalance is TotalCredit - TotalDebit and may be negative.
	NetBalance decimal.Decimal `json:"netBalance"`
}

// Bucket is a monthly spending total.
type Bucket struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Comparison puts total debit and credit side by side.
type Comparison struct {
	Name   string          `json:"name"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Result is everything the bank dashboard displays.
type Result struct {
	Filter          Filter                `json:"filter"`
	Filtered        []api.BankTransaction `json:"transactions"`
	Summary         Summary               `json:"summary"`
	MonthlySpending []Bucket              `json:"monthlySpending"`
	DebitVsCredit   []Comparison          `json:"debitVsCredit"`
}

// Aggregate filters transactions and computes the dashboard. It does not
// modify transactions.
func Aggregate(transactions []api.BankTransaction, f Filter) Result {
	res := Result{Filter: f, Filtered: make([]api.BankTransaction, 0, len(transactions))}
	for _, tx := range transactions {
		if f.Matches(tx) {
			res.Filtered = append(res.Filtered, tx)
		}
	}

	for _, tx := range res.Filtered {
		res.Summary.TotalDebit = res.Summary.TotalDebit.Add(tx.Debit)
		res.Summary.TotalCredit = res.Summary.TotalCredit.Add(tx.Credit)
	}
	res.Summary.NetBalance = res.Summary.TotalCredit.Sub(res.Summary.TotalDebit)

	res.MonthlySpending = monthlySpending(res.Filtered)
	res.DebitVsCredit = []Comparison{{
		Name:   ComparisonBucket,
		Debit:  res.Summary.TotalDebit,
		Credit: res.Summary.TotalCredit,
	}}
	return res
}

// monthlySpending sums positive debits per "Jan 06" month. Buckets come out
// in reverse order of first appearance: for a newest-first statement that is
// oldest month first.
func monthlySpending(txs []api.BankTransaction) []Bucket {
	idx := make(map[string]int)
	var out []Bucket
	for _, tx := range txs {
		if !tx.Debit.IsPositive() {
			continue
		}
		label := tx.Date.Format("Jan 06")
		i, ok := idx[label]
		if !ok {
			i = len(out)
			idx[label] = i
			out = append(out, Bucket{Name: label})
		}
		out[i].Value = out[i].Value.Add(tx.Debit)
	}
	slices.Reverse(out)
	return out
}

// SelectAccount keeps current when it is still among accounts, otherwise
// falls back to the first account. It returns "" when there are none.
func SelectAccount(accounts []api.BankAccount, current string) string {
	for _, a := range accounts {
		if a.ID == current && current != "" {
			return current
		}
	}
	if len(accounts) == 0 {
		return ""
	}
	return accounts[0].ID
}

// NextAccount returns the id after current, wrapping around. step may be
// negative.
func NextAccount(accounts []api.BankAccount, current string, step int) string {
	if len(accounts) == 0 {
		return ""
	}
	i := slices.IndexFunc(accounts, func(a api.BankAccount) bool { return a.ID == current })
	if i < 0 {
		return accounts[0].ID
	}
	n := len(accounts)
	return accounts[((i+step)%n+n)%n].ID
}
