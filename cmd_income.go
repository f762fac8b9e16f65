package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/chart"
	"github.com/Rshep3087/findash/csvingest"
	"github.com/Rshep3087/findash/format"
	"github.com/Rshep3087/findash/income"
)

const cliChartWidth = 40

func newIncomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Income record commands",
		Long:  `List, summarise, add, edit, delete and import income records.`,
	}

	cmd.AddCommand(
		newIncomeListCmd(),
		newIncomeSummaryCmd(),
		newIncomeAddCmd(),
		newIncomeUpdateCmd(),
		newIncomeDeleteCmd(),
		newIncomeUploadCmd(),
		newIncomeSuggestCmd(),
	)
	return cmd
}

func addIncomeFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("year", "", "only this year, or \"all\" (default: latest year with records)")
	cmd.Flags().String("month", "", "only this month: 0-11 or a name like mar (default: all)")
}

// incomeFilterFromFlags parses --year and --month. With neither given the
// filter defaults to the latest year, as the dashboard does.
func incomeFilterFromFlags(cmd *cobra.Command, records []api.IncomeRecord) (income.Filter, error) {
	year, _ := cmd.Flags().GetString("year")
	month, _ := cmd.Flags().GetString("month")

	if year == "" && month == "" {
		return income.DefaultFilter(records), nil
	}
	if year == "" {
		year = income.DefaultFilter(records).Year
	}
	return income.ParseFilter(year, month)
}

func newIncomeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List income records",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			records, err := a.client.ListIncome(cmd.Context())
			if err != nil {
				return apiError("list income records", err)
			}

			f, err := incomeFilterFromFlags(cmd, records)
			if err != nil {
				return err
			}
			res := income.Aggregate(records, f)

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, res.Filtered)
			}
			outputIncomeTable(cmd, res.Filtered, a.cfg.Currency)
			return nil
		}),
	}

	addIncomeFilterFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func outputIncomeTable(cmd *cobra.Command, records []api.IncomeRecord, currency string) {
	t := createStyledTable("ID", "DATE", "SOURCE", "CATEGORY", "AMOUNT", "NOTES")
	for _, r := range records {
		t.Row(
			r.ID,
			r.Date.Format(time.DateOnly),
			r.Source,
			orDash(r.Category),
			format.Currency(r.Amount, currency),
			orDash(r.Notes),
		)
	}
	printTable(cmd, t)
	fmt.Fprintf(cmd.OutOrStdout(), "%d records\n", len(records))
}

func newIncomeSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the income dashboard figures",
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			records, err := a.client.ListIncome(cmd.Context())
			if err != nil {
				return apiError("list income records", err)
			}

			f, err := incomeFilterFromFlags(cmd, records)
			if err != nil {
				return err
			}
			res := income.Aggregate(records, f)

			if outputFormat == jsonOutputFormat {
				res.Filtered = nil
				return outputJSON(cmd, res)
			}
			outputIncomeSummary(cmd, res, a.cfg.Currency)
			return nil
		}),
	}

	addIncomeFilterFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func outputIncomeSummary(cmd *cobra.Command, res income.Result, currency string) {
	s := res.Summary
	t := createStyledTable("METRIC", "VALUE")
	t.Row("Total Income ("+res.Filter.String()+")", format.Currency(s.Total, currency))
	t.Row(fmt.Sprintf("YTD Income (%d)", s.YTDYear), format.Currency(s.YTD, currency))
	t.Row("Avg. Monthly", format.Currency(s.AverageMonthly, currency))
	t.Row("Projected Annual", format.Currency(s.Projected, currency))
	t.Row("Highest Month", format.Currency(s.HighestMonth, currency))
	t.Row("Lowest Month", format.Currency(s.LowestMonth, currency))
	printTable(cmd, t)

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, chart.Bars("Income Trend", incomeRows(res.Trend, currency), cliChartWidth, bar))
	fmt.Fprintln(out)
	fmt.Fprintln(out, chart.Bars("Income by Source", incomeRows(res.Breakdown, currency), cliChartWidth, bar))
}

func incomeRows(buckets []income.Bucket, currency string) []chart.Row {
	rows := make([]chart.Row, len(buckets))
	for i, b := range buckets {
		rows[i] = chart.Row{Label: b.Name, Value: format.Float(b.Value), Display: format.Whole(b.Value, currency)}
	}
	return rows
}

func addIncomeInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "date received, YYYY-MM-DD")
	cmd.Flags().String("source", "", "who paid")
	cmd.Flags().String("category", "", "income category")
	cmd.Flags().String("amount", "", "amount received")
	cmd.Flags().String("notes", "", "free-form notes")
}

// applyIncomeFlags overwrites in with every flag the user set.
func applyIncomeFlags(cmd *cobra.Command, in incomeInput) incomeInput {
	set := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	set("date", &in.Date)
	set("source", &in.Source)
	set("category", &in.Category)
	set("amount", &in.Amount)
	set("notes", &in.Notes)
	return in
}

func newIncomeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an income record",
		Long: `Add an income record. The date defaults to today. When --category is
omitted and an Anthropic API key is configured, a category is suggested from
the ones you already use.`,
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			in := applyIncomeFlags(cmd, incomeInput{Date: time.Now().Format(time.DateOnly)})

			if strings.TrimSpace(in.Category) == "" && a.ai.IsEnabled() {
				rec, err := suggestCategory(cmd.Context(), a, in)
				if err != nil {
					return err
				}
				in.Category = rec.Category
				fmt.Fprintf(cmd.ErrOrStderr(), "Suggested category %q (%.0f%% confidence)\n", rec.Category, rec.Confidence)
			}

			record, err := in.record("")
			if err != nil {
				return err
			}

			created, err := a.client.CreateIncome(cmd.Context(), record)
			if err != nil {
				return apiError("add income record", err)
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, created)
			}
			outputIncomeTable(cmd, []api.IncomeRecord{*created}, a.cfg.Currency)
			return nil
		}),
	}

	addIncomeInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func newIncomeUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an income record",
		Long:  `Edit an income record. Only the fields given as flags change.`,
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			records, err := a.client.ListIncome(cmd.Context())
			if err != nil {
				return apiError("list income records", err)
			}
			i := slices.IndexFunc(records, func(r api.IncomeRecord) bool { return r.ID == args[0] })
			if i < 0 {
				return fmt.Errorf("income record %s not found", args[0])
			}

			record, err := applyIncomeFlags(cmd, incomeInputFrom(records[i])).record(args[0])
			if err != nil {
				return err
			}

			updated, err := a.client.UpdateIncome(cmd.Context(), record)
			if err != nil {
				return apiError("update income record", err)
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, updated)
			}
			outputIncomeTable(cmd, []api.IncomeRecord{*updated}, a.cfg.Currency)
			return nil
		}),
	}

	addIncomeInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func newIncomeDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an income record",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			ok, err := confirmAction(cmd, "Are you sure you want to delete this record?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if err := a.client.DeleteIncome(cmd.Context(), args[0]); err != nil {
				return apiError("delete income record", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted income record %s\n", args[0])
			return nil
		}),
	}

	addYesFlag(cmd)
	return cmd
}

func newIncomeUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Import income records from a CSV file",
		Long:  `Send a CSV file to the backend, which parses and imports it.`,
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(func(cmd *cobra.Command, args []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			var total int
			bridge := &csvingest.Bridge{
				Upload: csvingest.IncomeUploader(a.client),
				Refetch: func(ctx context.Context) error {
					records, err := a.client.ListIncome(ctx)
					total = len(records)
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
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%d income records in total\n", uploadStatus(res), total)
			return nil
		}),
	}

	addOutputFlag(cmd)
	return cmd
}

// uploadError puts the ingest alert in front of the underlying cause.
func uploadError(err error) error {
	if isAuthError(err) {
		return apiError("upload CSV file", err)
	}
	var ingestErr *csvingest.Error
	if errors.As(err, &ingestErr) {
		return fmt.Errorf("%s %w", ingestErr.Alert(), err)
	}
	return err
}

func newIncomeSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest-category",
		Short: "Suggest a category for an income record",
		Long:  `Ask Claude to pick a category for the described income, preferring the categories already in use.`,
		RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
			outputFormat, err := validateOutputFormat(cmd)
			if err != nil {
				return err
			}

			in := applyIncomeFlags(cmd, incomeInput{})
			if strings.TrimSpace(in.Source) == "" {
				return errors.New("--source is required")
			}

			rec, err := suggestCategory(cmd.Context(), a, in)
			if err != nil {
				return err
			}

			if outputFormat == jsonOutputFormat {
				return outputJSON(cmd, rec)
			}

			isNew := "no"
			if rec.IsNew {
				isNew = "yes"
			}
			t := createStyledTable("CATEGORY", "NEW", "CONFIDENCE", "REASONING")
			t.Row(rec.Category, isNew, fmt.Sprintf("%.0f%%", rec.Confidence), orDash(rec.Reasoning))
			printTable(cmd, t)
			return nil
		}),
	}

	addIncomeInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func suggestCategory(ctx context.Context, a *app, in incomeInput) (*CategoryRecommendation, error) {
	if !a.ai.IsEnabled() {
		return nil, errAIDisabled
	}

	records, err := a.client.ListIncome(ctx)
	if err != nil {
		return nil, apiError("list income records", err)
	}

	rec, err := a.ai.Suggest(ctx, in, distinctCategories(records))
	if err != nil {
		return nil, fmt.Errorf("failed to suggest a category: %w", err)
	}
	return rec, nil
}
