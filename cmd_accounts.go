package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
)

// accountRow is the CLI view of a bank account.
type accountRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Number       string `json:"number"`
	MaskedNumber string `json:"masked_number"`
	Active       bool   `json:"active"`
	UserID       string `json:"user_id,omitempty"`
	Selected     bool   `json:"selected"`
}

// convertBankAccount converts an api.BankAccount to the CLI row.
func convertBankAccount(acct api.BankAccount, selected string) accountRow {
	return accountRow{
		ID:           acct.ID,
		Name:         acct.AccountName,
		Number:       acct.AccountNumber,
		MaskedNumber: maskAccountNumber(acct.AccountNumber),
		Active:       acct.IsActive,
		UserID:       acct.UserID,
		Selected:     acct.ID == selected && selected != "",
	}
}

// maskAccountNumber keeps the last four digits, e.g. ••1234.
func maskAccountNumber(number string) string {
	number = strings.TrimSpace(number)
	if len(number) <= 4 {
		return number
	}
	return "••" + number[len(number)-4:]
}

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Bank account commands",
		Long:    `Commands for managing the bank accounts your statements belong to.`,
	}

	cmd.AddCommand(
		newAccountsListCmd(),
		newAccountsAddCmd(),
		newAccountsDeleteCmd(),
	)
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bank accounts",
		Long:  `List bank accounts with their IDs. The account marked * is the one transaction commands use by default.`,
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			accounts, err := a.client.ListAccounts(cmd.Context())
			if err != nil {
				return apiError("list accounts", err)
			}

			rows := make([]accountRow, 0, len(accounts))
			selected := defaultAccountID(accounts)
			for _, acct := range accounts {
				rows = append(rows, convertBankAccount(acct, selected))
			}

			// Sort accounts by name for consistent output
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].Name < rows[j].Name
			})

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, rows)
			}
			outputAccountsTable(cmd, rows)
			return nil
		}),
	}

	addOutputFlag(cmd)
	return cmd
}

func outputAccountsTable(cmd *cobra.Command, rows []accountRow) {
	t := createStyledTable("", "ID", "NAME", "NUMBER", "STATUS")
	for _, r := range rows {
		mark := ""
		if r.Selected {
			mark = "*"
		}
		status := "inactive"
		if r.Active {
			status = "active"
		}
		t.Row(mark, r.ID, r.Name, r.MaskedNumber, status)
	}
	printTable(cmd, t)
	fmt.Fprintf(cmd.OutOrStdout(), "%d accounts\n", len(rows))
}

func newAccountsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank account",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			number, _ := cmd.Flags().GetString("number")
			acct, err := accountInput{AccountName: name, AccountNumber: number}.account()
			if err != nil {
				return err
			}

			created, err := a.client.CreateAccount(cmd.Context(), acct)
			if err != nil {
				return apiError("add account", err)
			}

			row := convertBankAccount(*created, "")
			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, row)
			}
			outputAccountsTable(cmd, []accountRow{row})
			return nil
		}),
	}

	cmd.Flags().String("name", "", "account name")
	cmd.Flags().String("number", "", "account number")
	addOutputFlag(cmd)
	return cmd
}

func newAccountsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bank account and all its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			ok, err := confirmAction(cmd, "Are you sure you want to delete this account and all its transactions?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if err := a.client.DeleteAccount(cmd.Context(), args[0]); err != nil {
				return apiError("delete account", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s\n", args[0])
			return nil
		}),
	}

	addYesFlag(cmd)
	return cmd
}
