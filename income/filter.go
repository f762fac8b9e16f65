package income

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Rshep3087/findash/api"
)

// All selects every year or every month.
const All = "all"

// Filter narrows the records the income dashboard looks at.
// Year is All or a four digit year; Month is All or "0".."11" (January is "0").
type Filter struct {
	Year  string `json:"year"`
	Month string `json:"month"`
}

// DefaultFilter selects the most recent year that has data, or all years
// when there is none.
func DefaultFilter(records []api.IncomeRecord) Filter {
	years := Years(records)
	if len(years) == 0 {
		return Filter{Year: All, Month: All}
	}
	return Filter{Year: strconv.Itoa(years[0]), Month: All}
}

// ParseFilter builds a Filter from user input. Months may be given as
// 0-based indexes or by name ("mar", "March").
func ParseFilter(year, month string) (Filter, error) {
	f := Filter{Year: All, Month: All}

	year = strings.TrimSpace(strings.ToLower(year))
	if year != "" && year != All {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 {
			return Filter{}, fmt.Errorf("invalid year %q", year)
		}
		f.Year = strconv.Itoa(y)
	}

	month = strings.TrimSpace(strings.ToLower(month))
	if month != "" && month != All {
		m, err := parseMonth(month)
		if err != nil {
			return Filter{}, err
		}
		f.Month = strconv.Itoa(m)
	}
	return f, nil
}

func parseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 11 {
			return 0, fmt.Errorf("month index %d out of range 0-11", n)
		}
		return n, nil
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return int(m) - 1, nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}

// WithYear selects year and resets the month to All.
func (f Filter) WithYear(year string) Filter {
	return Filter{Year: year, Month: All}
}

// NextYear cycles All -> years[0] -> years[1] ... -> All.
// years is expected newest first, as returned in Result.AvailableYears.
func (f Filter) NextYear(years []int) Filter {
	return f.WithYear(stepYear(f.Year, years, 1))
}

// PrevYear cycles in the opposite direction of NextYear.
func (f Filter) PrevYear(years []int) Filter {
	return f.WithYear(stepYear(f.Year, years, -1))
}

func stepYear(cur string, years []int, dir int) string {
	opts := make([]string, 0, len(years)+1)
	opts = append(opts, All)
	for _, y := range years {
		opts = append(opts, strconv.Itoa(y))
	}
	i := slices.Index(opts, cur)
	if i < 0 {
		i = 0
	}
	return opts[(i+dir+len(opts))%len(opts)]
}

// NextMonth cycles All -> January ... December -> All.
func (f Filter) NextMonth() Filter {
	f.Month = stepMonth(f.Month, 1)
	return f
}

// PrevMonth cycles in the opposite direction of NextMonth.
func (f Filter) PrevMonth() Filter {
	f.Month = stepMonth(f.Month, -1)
	return f
}

func stepMonth(cur string, dir int) string {
	// position 0 is All, 1..12 are months 0..11
	pos := 0
	if m, err := strconv.Atoi(cur); err == nil && m >= 0 && m <= 11 {
		pos = m + 1
	}
	pos = (pos + dir + 13) % 13
	if pos == 0 {
		return All
	}
	return strconv.Itoa(pos - 1)
}

// MonthName returns the display name of the filter's month.
func (f Filter) MonthName() string {
	m, err := strconv.Atoi(f.Month)
	if err != nil || m < 0 || m > 11 {
		return "All Months"
	}
	return time.Month(m + 1).String()
}

// YearName returns the display name of the filter's year.
func (f Filter) YearName() string {
	if f.Year == All || f.Year == "" {
		return "All Years"
	}
	return f.Year
}

// String describes the filter, e.g. "March 2024".
func (f Filter) String() string {
	return f.MonthName() + " " + f.YearName()
}
