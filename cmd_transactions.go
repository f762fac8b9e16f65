package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/bank"
	"github.com/Rshep3087/findash/chart"
	"github.com/Rshep3087/findash/csvingest"
	"github.com/Rshep3087/findash/format"
)

func newTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Bank statement commands",
		Long:    `List, summarise, add, edit, delete and import the transactions of a bank account.`,
	}

	cmd.AddCommand(
		newTransactionsListCmd(),
		newTransactionsSummaryCmd(),
		newTransactionsAddCmd(),
		newTransactionsUpdateCmd(),
		newTransactionsDeleteCmd(),
		newTransactionsBulkDeleteCmd(),
		newTransactionsUploadCmd(),
	)
	return cmd
}

// defaultAccountID is the account used when --account is not given.
func defaultAccountID(accounts []api.BankAccount) string {
	return bank.SelectAccount(accounts, "")
}

func addAccountFlag(cmd *cobra.Command) {
	cmd.Flags().String("account", "", "bank account ID (default: the first account)")
}

// accountFromFlags resolves --account, falling back to the first account.
func accountFromFlags(ctx context.Context, cmd *cobra.Command, a *app) (string, error) {
	if id, _ := cmd.Flags().GetString("account"); id != "" {
		return id, nil
	}

	accounts, err := a.client.ListAccounts(ctx)
	if err != nil {
		return "", apiError("list accounts", err)
	}
	id := defaultAccountID(accounts)
	if id == "" {
		return "", fmt.Errorf("no bank accounts yet (run `%s accounts add`)", appName)
	}
	return id, nil
}

func addStatementFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "only transactions whose details contain this text")
	cmd.Flags().String("from", "", "start date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "end date, YYYY-MM-DD")
	cmd.Flags().String("period", "", "month or year containing --from (default today); overrides --to")
}

func statementFilterFromFlags(cmd *cobra.Command) (bank.Filter, error) {
	var f bank.Filter
	f.Search, _ = cmd.Flags().GetString("search")

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	periodFlag, _ := cmd.Flags().GetString("period")

	start, err := bank.ParseDate(from)
	if err != nil {
		return bank.Filter{}, err
	}
	end, err := bank.ParseDate(to)
	if err != nil {
		return bank.Filter{}, err
	}

	periodType, err := parsePeriodType(periodFlag)
	if err != nil {
		return bank.Filter{}, err
	}
	if periodType != "" {
		anchor := start
		if anchor.IsZero() {
			anchor = time.Now()
		}
		var p Period
		p.setPeriod(anchor, periodType)
		return p.apply(f), nil
	}

	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return bank.Filter{}, errors.New("--from is after --to")
	}
	f.Start, f.End = start, end
	return f, nil
}

// loadStatement fetches an account's transactions and aggregates them.
func loadStatement(cmd *cobra.Command, a *app) (string, bank.Result, error) {
	ctx := cmd.Context()

	f, err := statementFilterFromFlags(cmd)
	if err != nil {
		return "", bank.Result{}, err
	}
	accountID, err := accountFromFlags(ctx, cmd, a)
	if err != nil {
		return "", bank.Result{}, err
	}

	txs, err := a.client.ListTransactions(ctx, accountID)
	if err != nil {
		return "", bank.Result{}, apiError("list transactions", err)
	}
	return accountID, bank.Aggregate(txs, f), nil
}

func newTransactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an account's transactions",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			_, res, err := loadStatement(cmd, a)
			if err != nil {
				return err
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, res.Filtered)
			}
			outputTransactionsTable(cmd, res.Filtered, a.cfg.Currency)
			return nil
		}),
	}

	addAccountFlag(cmd)
	addStatementFilterFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func outputTransactionsTable(cmd *cobra.Command, txs []api.BankTransaction, currency string) {
	amount := func(d decimal.Decimal) string {
		if d.IsZero() {
			return "-"
		}
		return format.Currency(d, currency)
	}

	t := createStyledTable("ID", "DATE", "DETAILS", "DEBIT", "CREDIT", "BALANCE", "SOURCE")
	for _, tx := range txs {
		t.Row(
			tx.ID,
			tx.Date.Format(time.DateOnly),
			tx.Details,
			amount(tx.Debit),
			amount(tx.Credit),
			format.Currency(tx.Balance, currency),
			orDash(string(tx.Source)),
		)
	}
	printTable(cmd, t)
	fmt.Fprintf(cmd.OutOrStdout(), "%d transactions\n", len(txs))
}

func newTransactionsSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the bank dashboard figures",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			_, res, err := loadStatement(cmd, a)
			if err != nil {
				return err
			}

			if outputFormat == jsonOutputFormat {
				res.Filtered = nil
				return outputJSON(cmd, res)
			}
			outputStatementSummary(cmd, res, a.cfg.Currency)
			return nil
		}),
	}

	addAccountFlag(cmd)
	addStatementFilterFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func outputStatementSummary(cmd *cobra.Command, res bank.Result, currency string) {
	s := res.Summary
	t := createStyledTable("METRIC", "VALUE")
	t.Row("Total Debit", format.Currency(s.TotalDebit, currency))
	t.Row("Total Credit", format.Currency(s.TotalCredit, currency))
	t.Row("Net Balance", format.Signed(s.NetBalance, currency))
	t.Row("Date Range", res.Filter.Range())
	t.Row("Transactions", fmt.Sprint(len(res.Filtered)))
	printTable(cmd, t)

	rows := make([]chart.Row, len(res.MonthlySpending))
	for i, b := range res.MonthlySpending {
		rows[i] = chart.Row{Label: b.Name, Value: format.Float(b.Value), Display: format.Whole(b.Value, currency)}
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("#e05951"))
	fmt.Fprintln(cmd.OutOrStdout(), chart.Bars("Monthly Spending", rows, cliChartWidth, bar))
}

func addTransactionInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "transaction date, YYYY-MM-DD")
	cmd.Flags().String("details", "", "description from the statement")
	cmd.Flags().String("debit", "", "money out")
	cmd.Flags().String("credit", "", "money in")
	cmd.Flags().String("balance", "", "balance after the transaction")
}

func applyTransactionFlags(cmd *cobra.Command, in transactionInput) transactionInput {
	set := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	set("date", &in.Date)
	set("details", &in.Details)
	set("debit", &in.Debit)
	set("credit", &in.Credit)
	set("balance", &in.Balance)
	return in
}

func newTransactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction to an account",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			in := applyTransactionFlags(cmd, transactionInput{Date: time.Now().Format(time.DateOnly)})
			accountID, err := accountFromFlags(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}

			tx, err := in.transaction(api.BankTransaction{AccountID: accountID, Source: api.ProvenanceManual})
			if err != nil {
				return err
			}

			created, err := a.client.CreateTransaction(cmd.Context(), tx)
			if err != nil {
				return apiError("add transaction", err)
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, created)
			}
			outputTransactionsTable(cmd, []api.BankTransaction{*created}, a.cfg.Currency)
			return nil
		}),
	}

	addAccountFlag(cmd)
	addTransactionInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func newTransactionsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a transaction",
		Long:  `Edit a transaction. Only the fields given as flags change.`,
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			accountID, err := accountFromFlags(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			txs, err := a.client.ListTransactions(cmd.Context(), accountID)
			if err != nil {
				return apiError("list transactions", err)
			}
			i := slices.IndexFunc(txs, func(tx api.BankTransaction) bool { return tx.ID == args[0] })
			if i < 0 {
				return fmt.Errorf("transaction %s not found in account %s", args[0], accountID)
			}

			tx, err := applyTransactionFlags(cmd, transactionInputFrom(txs[i])).transaction(txs[i])
			if err != nil {
				return err
			}

			updated, err := a.client.UpdateTransaction(cmd.Context(), tx)
			if err != nil {
				return apiError("update transaction", err)
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, updated)
			}
			outputTransactionsTable(cmd, []api.BankTransaction{*updated}, a.cfg.Currency)
			return nil
		}),
	}

	addAccountFlag(cmd)
	addTransactionInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func newTransactionsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			ok, err := confirmAction(cmd, "Are you sure you want to delete this transaction?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if err := a.client.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return apiError("delete transaction", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		}),
	}

	addYesFlag(cmd)
	return cmd
}

func newTransactionsBulkDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several transactions in one request",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			ok, err := confirmAction(cmd, bulkDeleteQuestion(len(args)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			ids := slices.Clone(args)
			slices.Sort(ids)
			ids = slices.Compact(ids)
			if err := a.client.BulkDeleteTransactions(cmd.Context(), ids); err != nil {
				return apiError("delete transactions", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d transactions\n", len(ids))
			return nil
		}),
	}

	addYesFlag(cmd)
	return cmd
}

func newTransactionsUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Import a bank statement CSV into an account",
		Long:  `Send a statement CSV to the backend, which parses it and adds the rows to the account.`,
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			accountID, err := accountFromFlags(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}

			var total int
			bridge := &csvingest.Bridge{
				Upload: csvingest.TransactionUploader(a.client, accountID),
				Refetch: func(ctx context.Context) error {
					txs, err := a.client.ListTransactions(ctx, accountID)
					total = len(txs)
					return err
				},
			}

			res, err := bridge.Ingest(cmd.Context(), args[0])
			if err != nil {
				return uploadError(err)
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%d transactions in account %s\n", uploadStatus(res), total, accountID)
			return nil
		}),
	}

	addAccountFlag(cmd)
	addOutputFlag(cmd)
	return cmd
}
