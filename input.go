package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// incomeInput is an income record as typed by the user, in a form or as
// CLI flags.
type incomeInput struct {
	Date     string `validate:"required,datetime=2006-01-02"`
	Source   string `validate:"required"`
	Category string `validate:"required"`
	Amount   string `validate:"required,numeric"`
	Notes    string
}

func incomeInputFrom(r api.IncomeRecord) incomeInput {
	return incomeInput{
		Date:     r.Date.Format(time.DateOnly),
		Source:   r.Source,
		Category: r.Category,
		Amount:   r.Amount.String(),
		Notes:    r.Notes,
	}
}

// record validates the input and converts it. id may be empty for new records.
func (in incomeInput) record(id string) (api.IncomeRecord, error) {
	in.trim()
	if err := validateInput(in); err != nil {
		return api.IncomeRecord{}, err
	}

	date, _ := time.Parse(time.DateOnly, in.Date)
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return api.IncomeRecord{}, fmt.Errorf("amount: %w", err)
	}

	return api.IncomeRecord{
		ID:       id,
		Date:     date,
		Source:   in.Source,
		Category: in.Category,
		Amount:   amount,
		Notes:    in.Notes,
	}, nil
}

func (in *incomeInput) trim() {
	in.Date = strings.TrimSpace(in.Date)
	in.Source = strings.TrimSpace(in.Source)
	in.Category = strings.TrimSpace(in.Category)
	in.Amount = strings.TrimSpace(in.Amount)
	in.Notes = strings.TrimSpace(in.Notes)
}

// transactionInput is a bank transaction as typed by the user. Debit and
// credit are optional and default to zero; both may be set.
type transactionInput struct {
	Date    string `validate:"required,datetime=2006-01-02"`
	Details string `validate:"required"`
	Debit   string `validate:"omitempty,numeric"`
	Credit  string `validate:"omitempty,numeric"`
	Balance string `validate:"required,numeric"`
}

func transactionInputFrom(tx api.BankTransaction) transactionInput {
	in := transactionInput{
		Date:    tx.Date.Format(time.DateOnly),
		Details: tx.Details,
		Balance: tx.Balance.String(),
	}
	if !tx.Debit.IsZero() {
		in.Debit = tx.Debit.String()
	}
	if !tx.Credit.IsZero() {
		in.Credit = tx.Credit.String()
	}
	return in
}

// transaction validates the input and applies it on top of base, which
// carries the id, account and provenance that the user does not edit.
func (in transactionInput) transaction(base api.BankTransaction) (api.BankTransaction, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Details = strings.TrimSpace(in.Details)
	in.Debit = strings.TrimSpace(in.Debit)
	in.Credit = strings.TrimSpace(in.Credit)
	in.Balance = strings.TrimSpace(in.Balance)
	if err := validateInput(in); err != nil {
		return api.BankTransaction{}, err
	}

	debit, err := optionalAmount("debit", in.Debit)
	if err != nil {
		return api.BankTransaction{}, err
	}
	credit, err := optionalAmount("credit", in.Credit)
	if err != nil {
		return api.BankTransaction{}, err
	}
	balance, err := decimal.NewFromString(in.Balance)
	if err != nil {
		return api.BankTransaction{}, fmt.Errorf("balance: %w", err)
	}

	tx := base
	tx.Date, _ = time.Parse(time.DateOnly, in.Date)
	tx.Details = in.Details
	tx.Debit = debit
	tx.Credit = credit
	tx.Balance = balance
	if tx.Source == "" {
		tx.Source = api.ProvenanceManual
	}
	return tx, nil
}

func optionalAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

type accountInput struct {
	AccountName   string `validate:"required"`
	AccountNumber string `validate:"required"`
}

func (in accountInput) account() (api.BankAccount, error) {
	in.AccountName = strings.TrimSpace(in.AccountName)
	in.AccountNumber = strings.TrimSpace(in.AccountNumber)
	if err := validateInput(in); err != nil {
		return api.BankAccount{}, err
	}
	return api.BankAccount{
		AccountName:   in.AccountName,
		AccountNumber: in.AccountNumber,
		IsActive:      true,
	}, nil
}

// validateInput runs struct validation and reports every failing field in
// one readable error.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(field, tag string) string {
	field = strings.ToLower(field)
	switch tag {
	case "required":
		return field + " is required"
	case "datetime":
		return field + " must be a date like 2024-01-31"
	case "number", "numeric":
		return field + " must be a number"
	case "email":
		return field + " must be an email address"
	default:
		return field + " is invalid"
	}
}

// fieldValidator adapts a validator tag to a huh input validation func.
func fieldValidator(field, tag string) func(string) error {
	return func(s string) error {
		if err := validate.Var(strings.TrimSpace(s), tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return errors.New(fieldMessage(field, verrs[0].Tag()))
			}
			return err
		}
		return nil
	}
}
