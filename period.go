package main

import (
	"fmt"
	"time"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
)

// Period is a preset calendar range applied to the bank statement.
type Period struct {
	start time.Time
	end   time.Time
}

func (p *Period) String() string {
	if p.start.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s - %s", p.start.Format(time.DateOnly), p.end.Format(time.DateOnly))
}

// setPeriod covers the month or year containing current.
func (p *Period) setPeriod(current time.Time, periodType string) {
	switch periodType {
	case annualPeriodType:
		p.start = time.Date(current.Year(), 1, 1, 0, 0, 0, 0, current.Location())
		p.end = time.Date(current.Year()+1, 1, 1, 0, 0, 0, 0, current.Location()).Add(-time.Second)
	default:
		// default to month
		p.start = time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, current.Location())
		p.end = time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, current.Location()).Add(-time.Second)
	}
}

// apply narrows f to the period, keeping its search text.
func (p *Period) apply(f bank.Filter) bank.Filter {
	f.Start = p.start
	f.End = p.end
	return f
}

// shiftPeriod moves anchor by step months or years. The day is pinned to
// the first so month arithmetic never skips a short month.
func shiftPeriod(anchor time.Time, periodType string, step int) time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	if periodType == annualPeriodType {
		return first.AddDate(step, 0, 0)
	}
	return first.AddDate(0, step, 0)
}

// latestActivity is the date of the newest transaction, or now when there
// are none.
func latestActivity(txs []api.BankTransaction, now time.Time) time.Time {
	var latest time.Time
	for _, tx := range txs {
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	if latest.IsZero() {
		return now
	}
	return latest
}

// parsePeriodType accepts the CLI spelling of a period preset.
func parsePeriodType(s string) (string, error) {
	switch s {
	case "", monthlyPeriodType, annualPeriodType:
		return s, nil
	}
	return "", fmt.Errorf("invalid period %q (must be %s or %s)", s, monthlyPeriodType, annualPeriodType)
}
