package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/format"
)

// uncategorized labels records saved without a category.
const uncategorized = "uncategorized"

// incomeLister defines the interface for fetching income records.
type incomeLister interface {
	ListIncome(ctx context.Context) ([]api.IncomeRecord, error)
}

// categoryRow is one income category with its usage.
type categoryRow struct {
	Name    string          `json:"name"`
	Records int             `json:"records"`
	Total   decimal.Decimal `json:"total"`
}

// categoriesListCommand encapsulates the dependencies for the categories list command.
type categoriesListCommand struct {
	lister   incomeLister
	currency string
}

// newCategoriesCmd lists the income categories in use. Categories are free
// text, so the list is derived from the records themselves.
func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Income category commands",
		Long:  `Commands for the categories your income records use.`,
	}

	categoriesListCmd := &cobra.Command{
		Use:   "list",
		Short: "List income categories",
		Long:  `List every category used by an income record, with how often and how much.`,
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			c := categoriesListCommand{lister: a.client, currency: a.cfg.Currency}
			return c.run(cmd, args)
		}),
	}
	addOutputFlag(categoriesListCmd)

	cmd.AddCommand(categoriesListCmd)
	return cmd
}

// run executes the categories list command.
func (c *categoriesListCommand) run(cmd *cobra.Command, _ []string) error {
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	records, err := c.lister.ListIncome(cmd.Context())
	if err != nil {
		return apiError("list income records", err)
	}

	rows := categoryRows(records)
	if outputFormat == jsonOutputFormat {
		return outputJSON(cmd, rows)
	}
	outputCategoriesTable(cmd, rows, c.currency)
	return nil
}

// categoryRows groups records by category, ignoring case. The first spelling
// seen is kept. Records without a category are listed last.
func categoryRows(records []api.IncomeRecord) []categoryRow {
	idx := make(map[string]int)
	var rows []categoryRow
	var none *categoryRow
	for _, r := range records {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			if none == nil {
				none = &categoryRow{Name: uncategorized}
			}
			none.Records++
			none.Total = none.Total.Add(r.Amount)
			continue
		}

		key := strings.ToLower(name)
		i, ok := idx[key]
		if !ok {
			i = len(rows)
			idx[key] = i
			rows = append(rows, categoryRow{Name: name})
		}
		rows[i].Records++
		rows[i].Total = rows[i].Total.Add(r.Amount)
	}

	// Sort categories by name for consistent output
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	if none != nil {
		rows = append(rows, *none)
	}
	return rows
}

func outputCategoriesTable(cmd *cobra.Command, rows []categoryRow, currency string) {
	t := createStyledTable("NAME", "RECORDS", "TOTAL")
	for _, r := range rows {
		t.Row(r.Name, strconv.Itoa(r.Records), format.Currency(r.Total, currency))
	}
	printTable(cmd, t)
	fmt.Fprintf(cmd.OutOrStdout(), "%d categories\n", len(rows))
}
