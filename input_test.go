package main

import (
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
)

func TestIncomeInputRecord(t *testing.T) {
	tests := []struct {
		name    string
		in      incomeInput
		wantErr string
	}{
		{
			name: "valid",
			in:   incomeInput{Date: "2024-03-01", Source: " Acme ", Category: "salary", Amount: "1500.50", Notes: "march"},
		},
		{
			name:    "missing fields",
			in:      incomeInput{Date: "2024-03-01", Amount: "10"},
			wantErr: "source is required; category is required",
		},
		{
			name:    "bad date",
			in:      incomeInput{Date: "03/01/2024", Source: "Acme", Category: "salary", Amount: "10"},
			wantErr: "date must be a date like 2024-01-31",
		},
		{
			name:    "bad amount",
			in:      incomeInput{Date: "2024-03-01", Source: "Acme", Category: "salary", Amount: "ten"},
			wantErr: "amount must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.in.record("r1")
			if tt.wantErr != "" {
				be.Nonzero(t, err)
				be.Equal(t, tt.wantErr, err.Error())
				return
			}
			be.NilErr(t, err)
			be.Equal(t, "r1", rec.ID)
			be.Equal(t, "Acme", rec.Source)
			be.True(t, rec.Amount.Equal(decimal.RequireFromString("1500.50")))
			be.True(t, rec.Date.Equal(date(2024, 3, 1)))
		})
	}
}

func TestIncomeInputRoundTrip(t *testing.T) {
	rec := api.IncomeRecord{
		ID:       "r1",
		Date:     date(2024, 1, 31),
		Source:   "Acme",
		Category: "salary",
		Amount:   decimal.NewFromInt(42),
	}
	got, err := incomeInputFrom(rec).record(rec.ID)
	be.NilErr(t, err)
	be.Equal(t, rec.Source, got.Source)
	be.True(t, rec.Date.Equal(got.Date))
	be.True(t, rec.Amount.Equal(got.Amount))
}

func TestTransactionInput(t *testing.T) {
	base := api.BankTransaction{ID: "t1", AccountID: "a1", Source: api.ProvenanceCSV}

	tests := []struct {
		name       string
		in         transactionInput
		base       api.BankTransaction
		wantErr    bool
		wantDebit  string
		wantCredit string
		wantSource api.Provenance
	}{
		{
			name:       "debit only keeps provenance",
			in:         transactionInput{Date: "2024-02-01", Details: "Rent", Debit: "900", Balance: "100"},
			base:       base,
			wantDebit:  "900",
			wantCredit: "0",
			wantSource: api.ProvenanceCSV,
		},
		{
			name:       "both sides allowed",
			in:         transactionInput{Date: "2024-02-01", Details: "Refund", Debit: "5", Credit: "5", Balance: "100"},
			base:       api.BankTransaction{AccountID: "a1"},
			wantDebit:  "5",
			wantCredit: "5",
			wantSource: api.ProvenanceManual,
		},
		{
			name:    "negative debit",
			in:      transactionInput{Date: "2024-02-01", Details: "Rent", Debit: "-1", Balance: "100"},
			wantErr: true,
		},
		{
			name:    "missing balance",
			in:      transactionInput{Date: "2024-02-01", Details: "Rent"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := tt.in.transaction(tt.base)
			if tt.wantErr {
				be.Nonzero(t, err)
				return
			}
			be.NilErr(t, err)
			be.Equal(t, tt.base.ID, tx.ID)
			be.Equal(t, tt.base.AccountID, tx.AccountID)
			be.Equal(t, tt.wantDebit, tx.Debit.String())
			be.Equal(t, tt.wantCredit, tx.Credit.String())
			be.Equal(t, tt.wantSource, tx.Source)
		})
	}
}

func TestTransactionInputFromBlanksZeroAmounts(t *testing.T) {
	in := transactionInputFrom(api.BankTransaction{
		Date:    time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Details: "Salary",
		Credit:  decimal.NewFromInt(10),
		Balance: decimal.NewFromInt(10),
	})
	be.Equal(t, "", in.Debit)
	be.Equal(t, "10", in.Credit)
	be.Equal(t, "2024-05-06", in.Date)
}

func TestAccountInput(t *testing.T) {
	acct, err := accountInput{AccountName: " Checking ", AccountNumber: "1234"}.account()
	be.NilErr(t, err)
	be.Equal(t, "Checking", acct.AccountName)
	be.True(t, acct.IsActive)

	_, err = accountInput{AccountName: "Checking"}.account()
	be.Nonzero(t, err)
}

func TestFieldValidator(t *testing.T) {
	validateAmount := fieldValidator("amount", "required,numeric")
	be.NilErr(t, validateAmount("12.5"))
	be.Equal(t, "amount is required", validateAmount("  ").Error())
	be.Equal(t, "amount must be a number", validateAmount("abc").Error())
}
