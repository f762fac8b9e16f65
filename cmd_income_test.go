package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/income"
)

func TestIncomeFilterFromFlags(t *testing.T) {
	records := sampleBackend().income

	tests := []struct {
		name    string
		args    []string
		want    income.Filter
		wantErr bool
	}{
		{name: "defaults to latest year", want: income.Filter{Year: "2024", Month: income.All}},
		{name: "all years", args: []string{"--year", "all"}, want: income.Filter{Year: income.All, Month: income.All}},
		{name: "month keeps latest year", args: []string{"--month", "feb"}, want: income.Filter{Year: "2024", Month: "1"}},
		{name: "explicit", args: []string{"--year", "2023", "--month", "11"}, want: income.Filter{Year: "2023", Month: "11"}},
		{name: "bad month", args: []string{"--month", "12"}, wantErr: true},
		{name: "bad year", args: []string{"--year", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			addIncomeFilterFlags(cmd)
			be.NilErr(t, cmd.ParseFlags(tt.args))

			got, err := incomeFilterFromFlags(cmd, records)
			be.Equal(t, tt.wantErr, err != nil)
			be.Equal(t, tt.want, got)
		})
	}
}

func TestIncomeListCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "latest year", want: []string{"i1", "i2"}},
		{name: "all years", args: []string{"--year", "all"}, want: []string{"i1", "i2", "i3"}},
		{name: "one month", args: []string{"--year", "2024", "--month", "february"}, want: []string{"i2"}},
		{name: "empty month", args: []string{"--month", "jun"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, sampleBackend(), "token")

			args := append([]string{"list", "-o", "json"}, tt.args...)
			out, err := runCommand(t, a, newIncomeCmd(), args...)
			be.NilErr(t, err)

			records := decodeOutput[[]api.IncomeRecord](t, out)
			ids := make([]string, len(records))
			for i, r := range records {
				ids[i] = r.ID
			}
			be.AllEqual(t, tt.want, ids)
		})
	}
}

func TestIncomeListTable(t *testing.T) {
	a := newTestApp(t, sampleBackend(), "token")

	out, err := runCommand(t, a, newIncomeCmd(), "list", "--year", "all")
	be.NilErr(t, err)
	be.True(t, strings.Contains(out, "Side gig"))
	be.True(t, strings.Contains(out, "3 records"))
}

func TestIncomeSummaryCommand(t *testing.T) {
	a := newTestApp(t, sampleBackend(), "token")

	out, err := runCommand(t, a, newIncomeCmd(), "summary", "-o", "json")
	be.NilErr(t, err)

	res := decodeOutput[income.Result](t, out)
	be.Equal(t, income.Filter{Year: "2024", Month: income.All}, res.Filter)
	be.AllEqual(t, []int{2024, 2023}, res.AvailableYears)
	be.Equal(t, 2024, res.Summary.YTDYear)
	be.True(t, res.Summary.Total.Equal(decimal.NewFromInt(300)))
	be.True(t, res.Summary.YTD.Equal(decimal.NewFromInt(300)))
	be.True(t, res.Summary.Projected.Equal(decimal.NewFromInt(1800)))
	be.Equal(t, 1, len(res.Breakdown))
	be.Equal(t, "Acme", res.Breakdown[0].Name)
	// amounts are JSON numbers, not strings
	be.True(t, strings.Contains(out, `"total": 300,`))
	be.True(t, strings.Contains(out, `"ytd": 300,`))

	out, err = runCommand(t, a, newIncomeCmd(), "summary")
	be.NilErr(t, err)
	be.True(t, strings.Contains(out, "All Months 2024"))
	be.True(t, strings.Contains(out, "Income by Source"))
}

func TestIncomeAddCommand(t *testing.T) {
	b := sampleBackend()
	a := newTestApp(t, b, "token")

	out, err := runCommand(t, a, newIncomeCmd(), "add",
		"--date", "2024-04-01", "--source", "Acme", "--category", "salary", "--amount", "250.75", "-o", "json")
	be.NilErr(t, err)

	created := decodeOutput[api.IncomeRecord](t, out)
	be.Equal(t, "id1", created.ID)
	be.Equal(t, 4, len(b.income))
	be.True(t, b.income[3].Amount.Equal(decimal.RequireFromString("250.75")))

	_, err = runCommand(t, a, newIncomeCmd(), "add", "--source", "Acme", "--amount", "ten")
	be.Nonzero(t, err)
	be.Equal(t, "category is required; amount must be a number", err.Error())
	be.Equal(t, 4, len(b.income))
}

func TestIncomeAddSuggestsCategory(t *testing.T) {
	b := sampleBackend()
	a := newTestApp(t, b, "token")
	stub := &stubProvider{rec: &CategoryRecommendation{Category: "salary", Confidence: 90}}
	a.ai = NewAIRecommender(stub)

	_, err := runCommand(t, a, newIncomeCmd(), "add", "--source", "Acme", "--amount", "10")
	be.NilErr(t, err)
	be.Equal(t, "salary", b.income[3].Category)
	be.AllEqual(t, []string{"salary", "freelance"}, stub.categories)

	stub.err = errors.New("overloaded")
	_, err = runCommand(t, a, newIncomeCmd(), "add", "--source", "Acme", "--amount", "10")
	be.Nonzero(t, err)
	be.Equal(t, 4, len(b.income))
}

func TestIncomeSuggestCommandDisabled(t *testing.T) {
	a := newTestApp(t, sampleBackend(), "token")

	_, err := runCommand(t, a, newIncomeCmd(), "suggest-category", "--source", "Acme")
	be.True(t, errors.Is(err, errAIDisabled))

	_, err = runCommand(t, a, newIncomeCmd(), "suggest-category")
	be.Nonzero(t, err)
}

func TestIncomeUpdateCommand(t *testing.T) {
	b := sampleBackend()
	a := newTestApp(t, b, "token")

	_, err := runCommand(t, a, newIncomeCmd(), "update", "i1", "--amount", "150", "--notes", "bonus")
	be.NilErr(t, err)
	be.Equal(t, "i1", b.income[0].ID)
	be.Equal(t, "Acme", b.income[0].Source)
	be.Equal(t, "bonus", b.income[0].Notes)
	be.True(t, b.income[0].Amount.Equal(decimal.NewFromInt(150)))

	_, err = runCommand(t, a, newIncomeCmd(), "update", "nope", "--amount", "1")
	be.Nonzero(t, err)
	be.True(t, strings.Contains(err.Error(), "not found"))
}

func TestIncomeDeleteCommand(t *testing.T) {
	b := sampleBackend()
	a := newTestApp(t, b, "token")

	out, err := runCommand(t, a, newIncomeCmd(), "delete", "i2", "-y")
	be.NilErr(t, err)
	be.Equal(t, "Deleted income record i2\n", out)
	be.Equal(t, 2, len(b.income))
}

func TestIncomeUploadCommand(t *testing.T) {
	b := sampleBackend()
	a := newTestApp(t, b, "token")

	path := filepath.Join(t.TempDir(), "income.csv")
	be.NilErr(t, os.WriteFile(path, nil, 0o600))

	out, err := runCommand(t, a, newIncomeCmd(), "upload", path)
	be.NilErr(t, err)
	// empty files are still sent
	be.AllEqual(t, []string{""}, b.uploads)
	be.Equal(t, "Imported\n3 income records in total\n", out)

	b.status = 500
	_, err = runCommand(t, a, newIncomeCmd(), "upload", path)
	be.Nonzero(t, err)
	be.True(t, strings.HasPrefix(err.Error(), "Failed to upload CSV file."))
}
