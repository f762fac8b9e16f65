// Package format renders amounts for terminal display.
package format

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "INR"

var printer = message.NewPrinter(language.English)

func currency(code string) *money.Currency {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return c
	}
	return money.GetCurrency(DefaultCurrency)
}

// Money converts d to minor units of the currency. Unknown codes fall back
// to DefaultCurrency.
func Money(d decimal.Decimal, code string) *money.Money {
	c := currency(code)
	minor := d.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, c.Code)
}

// Currency formats d with the currency's symbol and minor units, e.g. ₹1,234.50.
func Currency(d decimal.Decimal, code string) string {
	return Money(d, code).Display()
}

// Signed is Currency with an explicit leading sign for non-zero amounts.
func Signed(d decimal.Decimal, code string) string {
	switch d.Sign() {
	case -1:
		return "-" + Currency(d.Abs(), code)
	case 1:
		return "+" + Currency(d, code)
	default:
		return Currency(d, code)
	}
}

// Whole formats d rounded to whole units with the currency symbol, e.g. ₹1,235.
func Whole(d decimal.Decimal, code string) string {
	c := currency(code)
	n := d.Round(0).IntPart()
	if n < 0 {
		return printer.Sprintf("-%s%d", c.Grapheme, -n)
	}
	return printer.Sprintf("%s%d", c.Grapheme, n)
}

// Plain formats d with two decimals and no symbol, for tables and JSON-ish
// output where the currency is implied.
func Plain(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Float converts d for proportional rendering such as bar widths.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
