package main

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
)

// promptKind says what a single-purpose prompt form is collecting.
type promptKind int

const (
	promptIncomeUpload promptKind = iota
	promptTransactionUpload
	promptSearch
	promptDateRange
)

func (p promptKind) title() string {
	switch p {
	case promptIncomeUpload:
		return "Upload income CSV"
	case promptTransactionUpload:
		return "Upload statement CSV"
	case promptSearch:
		return "Search transactions"
	case promptDateRange:
		return "Filter by date"
	}
	return ""
}

func newLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Key("email").
				Placeholder("you@example.com").
				Validate(fieldValidator("email", "required,email")),

			huh.NewInput().
				Title("Password").
				Key("password").
				EchoMode(huh.EchoModePassword).
				Validate(fieldValidator("password", "required")),
		).Title("Log in").Description("ctrl+n to create an account instead"),
	).WithShowHelp(false)
}

func newSignupForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Key("email").
				Placeholder("you@example.com").
				Validate(fieldValidator("email", "required,email")),

			huh.NewInput().
				Title("Password").
				Key("password").
				EchoMode(huh.EchoModePassword).
				Validate(fieldValidator("password", "required")),

			// checked against the password on submit
			huh.NewInput().
				Title("Confirm password").
				Key("confirm").
				EchoMode(huh.EchoModePassword),
		).Title("Sign up").Description("ctrl+n to log in instead"),
	).WithShowHelp(false)
}

// newIncomeForm builds the add/edit form. rec is nil when adding. With AI
// suggestions enabled a blank category is filled in on submit.
func newIncomeForm(rec *api.IncomeRecord, categories []string, aiEnabled bool) *huh.Form {
	in := incomeInput{Date: time.Now().Format(time.DateOnly)}
	title := "New income record"
	if rec != nil {
		in = incomeInputFrom(*rec)
		title = "Edit income record"
	}

	categoryDesc := "Start typing to reuse an existing category"
	categoryValidate := fieldValidator("category", "required")
	if aiEnabled && rec == nil {
		categoryDesc = "Leave blank for a suggested category"
		categoryValidate = func(string) error { return nil }
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Key("date").
				Value(&in.Date).
				Placeholder("YYYY-MM-DD").
				Validate(fieldValidator("date", "required,datetime=2006-01-02")),

			huh.NewInput().
				Title("Source").
				Description("Who paid you").
				Key("source").
				Value(&in.Source).
				Validate(fieldValidator("source", "required")),

			huh.NewInput().
				Title("Category").
				Description(categoryDesc).
				Key("category").
				Value(&in.Category).
				Suggestions(categories).
				Validate(categoryValidate),

			huh.NewInput().
				Title("Amount").
				Key("amount").
				Value(&in.Amount).
				Placeholder("0.00").
				Validate(fieldValidator("amount", "required,numeric")),

			huh.NewText().
				Title("Notes").
				Key("notes").
				Value(&in.Notes).
				CharLimit(500),
		).Title(title),
	).WithShowHelp(false)
}

func incomeInputFromForm(f *huh.Form) incomeInput {
	return incomeInput{
		Date:     f.GetString("date"),
		Source:   f.GetString("source"),
		Category: f.GetString("category"),
		Amount:   f.GetString("amount"),
		Notes:    f.GetString("notes"),
	}
}

// newTransactionForm builds the add/edit form for the selected account.
func newTransactionForm(tx *api.BankTransaction) *huh.Form {
	in := transactionInput{Date: time.Now().Format(time.DateOnly)}
	title := "New transaction"
	if tx != nil {
		in = transactionInputFrom(*tx)
		title = "Edit transaction"
	}

	amount := func(field string) func(string) error {
		return func(s string) error {
			_, err := optionalAmount(field, s)
			return err
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Key("date").
				Value(&in.Date).
				Placeholder("YYYY-MM-DD").
				Validate(fieldValidator("date", "required,datetime=2006-01-02")),

			huh.NewInput().
				Title("Details").
				Key("details").
				Value(&in.Details).
				Validate(fieldValidator("details", "required")),

			huh.NewInput().
				Title("Debit").
				Description("Money out, leave blank for none").
				Key("debit").
				Value(&in.Debit).
				Validate(amount("debit")),

			huh.NewInput().
				Title("Credit").
				Description("Money in, leave blank for none").
				Key("credit").
				Value(&in.Credit).
				Validate(amount("credit")),

			huh.NewInput().
				Title("Balance").
				Key("balance").
				Value(&in.Balance).
				Validate(fieldValidator("balance", "required,numeric")),
		).Title(title),
	).WithShowHelp(false)
}

func transactionInputFromForm(f *huh.Form) transactionInput {
	return transactionInput{
		Date:    f.GetString("date"),
		Details: f.GetString("details"),
		Debit:   f.GetString("debit"),
		Credit:  f.GetString("credit"),
		Balance: f.GetString("balance"),
	}
}

func newAccountForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Account name").
				Key("name").
				Validate(fieldValidator("account name", "required")),

			huh.NewInput().
				Title("Account number").
				Key("number").
				Validate(fieldValidator("account number", "required")),
		).Title("New bank account"),
	).WithShowHelp(false)
}

func accountInputFromForm(f *huh.Form) accountInput {
	return accountInput{
		AccountName:   f.GetString("name"),
		AccountNumber: f.GetString("number"),
	}
}

// newPromptForm builds the one-question forms: a CSV path, the search text
// or the date range. current prefills the bank filters.
func newPromptForm(kind promptKind, current bank.Filter) *huh.Form {
	var fields []huh.Field

	switch kind {
	case promptIncomeUpload, promptTransactionUpload:
		fields = append(fields, huh.NewInput().
			Title("CSV file").
			Description("Path to the file; the server parses it").
			Key("path").
			Placeholder("~/Downloads/statement.csv").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("path is required")
				}
				return nil
			}))

	case promptSearch:
		search := current.Search
		fields = append(fields, huh.NewInput().
			Title("Details contain").
			Key("search").
			Value(&search))

	case promptDateRange:
		start, end := dateOrEmpty(current.Start), dateOrEmpty(current.End)
		fields = append(fields,
			huh.NewInput().
				Title("From").
				Description("YYYY-MM-DD, blank for no lower bound").
				Key("start").
				Value(&start).
				Validate(validateDate),
			huh.NewInput().
				Title("To").
				Description("YYYY-MM-DD, blank for no upper bound").
				Key("end").
				Value(&end).
				Validate(validateDate),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...).Title(kind.title())).WithShowHelp(false)
}

func validateDate(s string) error {
	_, err := bank.ParseDate(s)
	return err
}

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// expandHome resolves a leading ~ the way a shell would.
func expandHome(path string, home func() (string, error)) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	dir, err := home()
	if err != nil {
		return path
	}
	return dir + strings.TrimPrefix(path, "~")
}

func newConfirmForm(question string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Key("confirm").
				Affirmative("Yes").
				Negative("No"),
		),
	).WithShowHelp(false)
}
