package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Rshep3087/findash/api"
)

// maxStatementFetches bounds concurrent statement requests.
const maxStatementFetches = 4

func newNetWorthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networth",
		Short: "Net worth across bank accounts",
		Long:  `Add up the closing balance of every bank account. Overdrawn accounts count as liabilities.`,
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}
			showBreakdown, _ := cmd.Flags().GetBool("breakdown")

			accounts, statements, err := fetchStatements(cmd, a.client)
			if err != nil {
				return err
			}

			netWorthData, err := calculateNetWorthData(accounts, statements, a.cfg.Currency, showBreakdown)
			if err != nil {
				return err
			}
			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, netWorthData.ToJSON())
			}
			outputNetWorthTable(cmd, netWorthData)
			return nil
		}),
	}

	addOutputFlag(cmd)
	cmd.Flags().Bool("breakdown", false, "Show each account's closing balance")
	return cmd
}

// fetchStatements loads every account and, in parallel, its transactions.
func fetchStatements(cmd *cobra.Command, client *api.Client) ([]api.BankAccount, map[string][]api.BankTransaction, error) {
	accounts, err := client.ListAccounts(cmd.Context())
	if err != nil {
		return nil, nil, apiError("list accounts", err)
	}

	var mu sync.Mutex
	statements := make(map[string][]api.BankTransaction, len(accounts))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxStatementFetches)
	for _, acct := range accounts {
		g.Go(func() error {
			txs, err := client.ListTransactions(ctx, acct.ID)
			if err != nil {
				return apiError("list transactions for "+acct.AccountName, err)
			}
			mu.Lock()
			statements[acct.ID] = txs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return accounts, statements, nil
}

func outputNetWorthTable(cmd *cobra.Command, data *NetWorthData) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Net Worth: %s\n\n", data.NetWorth.Display())

	if len(data.Accounts) == 0 {
		return
	}

	t := createStyledTable("ID", "ACCOUNT", "BALANCE", "AS OF")
	for _, a := range data.Accounts {
		t.Row(a.ID, a.Name, a.Amount.Display(), orDash(a.AsOf))
	}
	printTable(cmd, t)

	fmt.Fprintf(out, "Total Assets:      %s\n", data.TotalAssets.Display())
	fmt.Fprintf(out, "Total Liabilities: %s\n", data.TotalLiabilities.Display())
	fmt.Fprintf(out, "Net Worth:         %s\n", data.NetWorth.Display())
}
