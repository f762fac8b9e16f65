// Package income derives the income dashboard from a user's records.
package income

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rshep3087/findash/api"
)

var now = time.Now

// Bucket is a named total, used for both the trend and the breakdown.
type Bucket struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Summary holds the dashboard cards.
type Summary struct {
	// Total of the filtered records.
	Total decimal.Decimal `json:"total"`
	// YTD sums every record in YTDYear, ignoring the month filter.
	YTD     decimal.Decimal `json:"ytd"`
	YTDYear int             `json:"ytdYear"`
	// AverageMonthly, HighestMonth and LowestMonth cover the selected year,
	// or YTDYear when every year is selected.
	AverageMonthly decimal.Decimal `json:"averageMonthly"`
	// Projected extrapolates YTD to twelve months from the latest month seen.
	Projected    decimal.Decimal `json:"projected"`
	HighestMonth decimal.Decimal `json:"highestMonth"`
	LowestMonth  decimal.Decimal `json:"lowestMonth"`
}

// Result is everything the income dashboard displays.
type Result struct {
	Filter         Filter             `json:"filter"`
	AvailableYears []int              `json:"availableYears"`
	Filtered       []api.IncomeRecord `json:"records"`
	Summary        Summary            `json:"summary"`
	Trend          []Bucket           `json:"trend"`
	Breakdown      []Bucket           `json:"breakdown"`
}

// Years returns the distinct years present in records, newest first.
func Years(records []api.IncomeRecord) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range records {
		y := r.Date.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })
	return years
}

// Aggregate filters records and computes the dashboard for f. It does not
// modify records.
func Aggregate(records []api.IncomeRecord, f Filter) Result {
	res := Result{
		Filter:         f,
		AvailableYears: Years(records),
		Filtered:       filter(records, f),
	}
	res.Summary = summarize(records, res.Filtered, f, res.AvailableYears)
	res.Trend = trend(res.Filtered, f.Year == All)
	res.Breakdown = breakdown(res.Filtered)
	return res
}

func filter(records []api.IncomeRecord, f Filter) []api.IncomeRecord {
	wantYear, yearErr := strconv.Atoi(f.Year)
	wantMonth, monthErr := strconv.Atoi(f.Month)

	out := make([]api.IncomeRecord, 0, len(records))
	for _, r := range records {
		if f.Year != All && (yearErr != nil || r.Date.Year() != wantYear) {
			continue
		}
		if f.Month != All && (monthErr != nil || int(r.Date.Month())-1 != wantMonth) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func summarize(all, filtered []api.IncomeRecord, f Filter, years []int) Summary {
	var s Summary

	for _, r := range filtered {
		s.Total = s.Total.Add(r.Amount)
	}

	s.YTDYear = now().Year()
	if len(years) > 0 {
		s.YTDYear = years[0]
	}

	latestMonth := 0
	for _, r := range all {
		if r.Date.Year() != s.YTDYear {
			continue
		}
		s.YTD = s.YTD.Add(r.Amount)
		latestMonth = max(latestMonth, int(r.Date.Month()))
	}
	if s.YTD.IsPositive() && latestMonth > 0 {
		s.Projected = s.YTD.Div(decimal.NewFromInt(int64(latestMonth))).Mul(decimal.NewFromInt(12))
	}

	// the year under consideration ignores the month filter
	year := s.YTDYear
	if f.Year != All {
		y, err := strconv.Atoi(f.Year)
		if err != nil {
			return s
		}
		year = y
	}

	var yearTotal decimal.Decimal
	months := make(map[time.Month]decimal.Decimal)
	for _, r := range all {
		if r.Date.Year() != year {
			continue
		}
		yearTotal = yearTotal.Add(r.Amount)
		months[r.Date.Month()] = months[r.Date.Month()].Add(r.Amount)
	}
	if len(months) == 0 {
		return s
	}

	s.AverageMonthly = yearTotal.Div(decimal.NewFromInt(int64(len(months))))
	first := true
	for _, v := range months {
		if first {
			s.HighestMonth, s.LowestMonth = v, v
			first = false
			continue
		}
		s.HighestMonth = decimal.Max(s.HighestMonth, v)
		s.LowestMonth = decimal.Min(s.LowestMonth, v)
	}
	return s
}

// trend buckets by calendar year when allYears is set, otherwise by month
// labelled "Jan 24". Buckets are ordered by the date they represent.
func trend(records []api.IncomeRecord, allYears bool) []Bucket {
	type dated struct {
		Bucket
		at time.Time
	}
	idx := make(map[string]int)
	var buckets []dated
	for _, r := range records {
		var at time.Time
		var label string
		if allYears {
			at = time.Date(r.Date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
			label = at.Format("2006")
		} else {
			at = time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
			label = at.Format("Jan 06")
		}
		i, ok := idx[label]
		if !ok {
			i = len(buckets)
			idx[label] = i
			buckets = append(buckets, dated{Bucket: Bucket{Name: label}, at: at})
		}
		buckets[i].Value = buckets[i].Value.Add(r.Amount)
	}

	slices.SortStableFunc(buckets, func(a, b dated) int { return a.at.Compare(b.at) })

	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		out[i] = b.Bucket
	}
	return out
}

// breakdown sums amounts per source in first-encounter order.
func breakdown(records []api.IncomeRecord) []Bucket {
	idx := make(map[string]int)
	var out []Bucket
	for _, r := range records {
		i, ok := idx[r.Source]
		if !ok {
			i = len(out)
			idx[r.Source] = i
			out = append(out, Bucket{Name: r.Source})
		}
		out[i].Value = out[i].Value.Add(r.Amount)
	}
	return out
}
