package income

import (
	"slices"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
)

func rec(date string, amount int64, source string) api.IncomeRecord {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return api.IncomeRecord{ID: date + source, Date: d, Source: source, Amount: decimal.NewFromInt(amount)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sum(records []api.IncomeRecord) decimal.Decimal {
	var total decimal.Decimal
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

var sample = []api.IncomeRecord{
	rec("2024-01-15", 100, "Salary"),
	rec("2024-02-20", 200, "Freelance"),
	rec("2023-12-01", 50, "Salary"),
}

func TestAggregateScenario(t *testing.T) {
	res := Aggregate(sample, Filter{Year: "2024", Month: All})

	be.Equal(t, 2, len(res.Filtered))
	be.True(t, res.Summary.Total.Equal(dec("300")))
	be.True(t, slices.Equal([]int{2024, 2023}, res.AvailableYears))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{name: "all years all months", filter: Filter{Year: All, Month: All}, wantIDs: []string{"2024-01-15Salary", "2024-02-20Freelance", "2023-12-01Salary"}},
		{name: "year only", filter: Filter{Year: "2023", Month: All}, wantIDs: []string{"2023-12-01Salary"}},
		{name: "month only spans years", filter: Filter{Year: All, Month: "0"}, wantIDs: []string{"2024-01-15Salary"}},
		{name: "year and month", filter: Filter{Year: "2024", Month: "1"}, wantIDs: []string{"2024-02-20Freelance"}},
		{name: "no match", filter: Filter{Year: "2022", Month: All}},
		{name: "unparseable year matches nothing", filter: Filter{Year: "abc", Month: All}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Aggregate(sample, tt.filter)
			var ids []string
			for _, r := range res.Filtered {
				ids = append(ids, r.ID)
			}
			be.True(t, slices.Equal(tt.wantIDs, ids))
			be.True(t, sum(res.Filtered).Equal(res.Summary.Total))
		})
	}
}

func TestSummary(t *testing.T) {
	records := []api.IncomeRecord{
		rec("2024-01-10", 100, "Salary"),
		rec("2024-01-20", 50, "Bonus"),
		rec("2024-03-05", 300, "Salary"),
		rec("2023-06-01", 1000, "Salary"),
		rec("2023-07-01", 500, "Salary"),
	}

	tests := []struct {
		name        string
		filter      Filter
		wantTotal   string
		wantYTD     string
		wantYTDYear int
		wantAvg     string
		wantProj    string
		wantHigh    string
		wantLow     string
	}{
		{
			name:        "latest year",
			filter:      Filter{Year: "2024", Month: All},
			wantTotal:   "450",
			wantYTD:     "450",
			wantYTDYear: 2024,
			wantAvg:     "225",
			wantProj:    "1800",
			wantHigh:    "300",
			wantLow:     "150",
		},
		{
			name:        "older year keeps ytd on latest",
			filter:      Filter{Year: "2023", Month: All},
			wantTotal:   "1500",
			wantYTD:     "450",
			wantYTDYear: 2024,
			wantAvg:     "750",
			wantProj:    "1800",
			wantHigh:    "1000",
			wantLow:     "500",
		},
		{
			name:        "all years considers latest year",
			filter:      Filter{Year: All, Month: All},
			wantTotal:   "1950",
			wantYTD:     "450",
			wantYTDYear: 2024,
			wantAvg:     "225",
			wantProj:    "1800",
			wantHigh:    "300",
			wantLow:     "150",
		},
		{
			name:        "month filter only narrows the total",
			filter:      Filter{Year: "2024", Month: "2"},
			wantTotal:   "300",
			wantYTD:     "450",
			wantYTDYear: 2024,
			wantAvg:     "225",
			wantProj:    "1800",
			wantHigh:    "300",
			wantLow:     "150",
		},
		{
			name:        "year without data",
			filter:      Filter{Year: "2020", Month: All},
			wantTotal:   "0",
			wantYTD:     "450",
			wantYTDYear: 2024,
			wantAvg:     "0",
			wantProj:    "1800",
			wantHigh:    "0",
			wantLow:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Aggregate(records, tt.filter).Summary
			be.True(t, s.Total.Equal(dec(tt.wantTotal)))
			be.True(t, s.YTD.Equal(dec(tt.wantYTD)))
			be.Equal(t, tt.wantYTDYear, s.YTDYear)
			be.True(t, s.AverageMonthly.Equal(dec(tt.wantAvg)))
			be.True(t, s.Projected.Equal(dec(tt.wantProj)))
			be.True(t, s.HighestMonth.Equal(dec(tt.wantHigh)))
			be.True(t, s.LowestMonth.Equal(dec(tt.wantLow)))
		})
	}
}

func TestEmptyDataset(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	res := Aggregate(nil, Filter{Year: All, Month: All})
	be.Equal(t, 0, len(res.Filtered))
	be.Equal(t, 0, len(res.AvailableYears))
	be.Equal(t, 0, len(res.Trend))
	be.Equal(t, 0, len(res.Breakdown))
	be.Equal(t, 2025, res.Summary.YTDYear)
	be.True(t, res.Summary.Total.IsZero())
	be.True(t, res.Summary.Projected.IsZero())
	be.True(t, res.Summary.HighestMonth.IsZero())
}

func TestProjectionSkipsNonPositiveYTD(t *testing.T) {
	records := []api.IncomeRecord{rec("2024-02-01", -100, "Refund")}
	s := Aggregate(records, Filter{Year: All, Month: All}).Summary
	be.True(t, s.YTD.Equal(dec("-100")))
	be.True(t, s.Projected.IsZero())
}

func TestTrend(t *testing.T) {
	records := []api.IncomeRecord{
		rec("2024-03-05", 300, "Salary"),
		rec("2023-12-01", 50, "Salary"),
		rec("2024-01-10", 100, "Salary"),
		rec("2024-01-20", 50, "Bonus"),
		// sorts after "Mar 24" by date but before it by label text
		rec("2024-12-01", 10, "Salary"),
	}

	tests := []struct {
		name   string
		filter Filter
		want   []Bucket
	}{
		{
			name:   "by year when all years selected",
			filter: Filter{Year: All, Month: All},
			want:   []Bucket{{Name: "2023", Value: dec("50")}, {Name: "2024", Value: dec("460")}},
		},
		{
			name:   "by month sorted by date",
			filter: Filter{Year: "2024", Month: All},
			want: []Bucket{
				{Name: "Jan 24", Value: dec("150")},
				{Name: "Mar 24", Value: dec("300")},
				{Name: "Dec 24", Value: dec("10")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Aggregate(records, tt.filter)
			be.Equal(t, len(tt.want), len(res.Trend))
			var total decimal.Decimal
			for i, b := range res.Trend {
				be.Equal(t, tt.want[i].Name, b.Name)
				be.True(t, tt.want[i].Value.Equal(b.Value))
				total = total.Add(b.Value)
			}
			be.True(t, total.Equal(res.Summary.Total))
		})
	}
}

func TestBreakdown(t *testing.T) {
	res := Aggregate([]api.IncomeRecord{
		rec("2024-01-10", 100, "Salary"),
		rec("2024-01-20", 50, "Bonus"),
		rec("2024-02-10", 100, "Salary"),
	}, Filter{Year: All, Month: All})

	be.Equal(t, 2, len(res.Breakdown))
	be.Equal(t, "Salary", res.Breakdown[0].Name)
	be.True(t, res.Breakdown[0].Value.Equal(dec("200")))
	be.Equal(t, "Bonus", res.Breakdown[1].Name)
	be.True(t, res.Breakdown[1].Value.Equal(dec("50")))
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	records := slices.Clone(sample)
	Aggregate(records, Filter{Year: "2024", Month: All})
	be.Equal(t, len(sample), len(records))
	for i := range sample {
		be.Equal(t, sample[i].ID, records[i].ID)
	}
}

func TestAggregatorMemoizes(t *testing.T) {
	a := NewAggregator()
	f := Filter{Year: "2024", Month: All}

	first := a.Aggregate(sample, f)
	second := a.Aggregate(slices.Clone(sample), f)
	be.True(t, first.Summary.Total.Equal(second.Summary.Total))

	hits, misses := a.Stats()
	be.Equal(t, 1, hits)
	be.Equal(t, 1, misses)

	changed := slices.Clone(sample)
	changed[0].Amount = dec("1000")
	third := a.Aggregate(changed, f)
	be.True(t, third.Summary.Total.Equal(dec("1200")))

	_, misses = a.Stats()
	be.Equal(t, 2, misses)
}
