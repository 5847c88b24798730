package markdown

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NA is rendered for values that are missing or not computable
const NA = "N/A"

var printer = message.NewPrinter(language.English)

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Grouped renders v with thousands separators and at most three fraction
// digits, trimming trailing zeros (1234.5 -> "1,234.5").
func Grouped(v *float64) string {
	if !finite(v) {
		return NA
	}
	rounded, _ := decimal.NewFromFloat(*v).Round(3).Float64()
	return printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(3)))
}

// Money renders a grouped amount with a currency symbol
func Money(v *float64, symbol string) string {
	if !finite(v) {
		return NA
	}
	return symbol + Grouped(v)
}

// MoneyFixed renders an amount with exactly n decimals ("$200.00")
func MoneyFixed(v *float64, symbol string, n int) string {
	if !finite(v) {
		return NA
	}
	return symbol + Fixed(v, n)
}

// Fixed renders exactly n decimals without grouping
func Fixed(v *float64, n int) string {
	if !finite(v) {
		return NA
	}
	return decimal.NewFromFloat(*v).StringFixed(int32(n))
}

// Pct renders a percentage with one decimal; missing values render as 0%
func Pct(v *float64) string {
	if !finite(v) {
		return "0%"
	}
	return Fixed(v, 1) + "%"
}

// SignedPct prefixes non-negative values with "+"
func SignedPct(v *float64) string {
	if !finite(v) {
		return "0%"
	}
	s := Fixed(v, 1)
	if *v > 0 {
		s = "+" + s
	}
	return s + "%"
}

// Multiple renders a ratio such as ROAS ("4.25x")
func Multiple(v *float64) string {
	if !finite(v) {
		return NA
	}
	return Fixed(v, 2) + "x"
}

// Count renders an integer-like metric, missing values as 0
func Count(v *float64) string {
	if !finite(v) {
		return "0"
	}
	return Grouped(v)
}

func ptr(v float64) *float64 { return &v }
