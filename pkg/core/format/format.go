// Package format turns raw engine numbers into display strings. It carries
// no business logic: every function is a pure transform and nil renders as
// "N/A".
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const NA = "N/A"

var (
	billion = decimal.NewFromInt(1_000_000_000)
	million = decimal.NewFromInt(1_000_000)
)

// Percent renders a rate as "12.3%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// PercentPtr is Percent with N/A for nil.
func PercentPtr(rate *float64) string {
	if rate == nil {
		return NA
	}
	return Percent(*rate)
}

// SignedPercent renders an already-scaled percentage with a sign, "+4.2%".
func SignedPercent(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// Billions renders a dollar amount as "$12.35B".
func Billions(v float64) string {
	return "$" + decimal.NewFromFloat(v).Div(billion).StringFixed(2) + "B"
}

// BillionsPtr is Billions with N/A for nil.
func BillionsPtr(v *float64) string {
	if v == nil {
		return NA
	}
	return Billions(*v)
}

// Millions renders a share count as "1,234.57M".
func Millions(v float64) string {
	m, _ := decimal.NewFromFloat(v).Div(million).Round(2).Float64()
	return humanize.FormatFloat("#,###.##", m) + "M"
}

// Multiple renders a ratio as "3.25x".
func Multiple(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2fx", *v)
}

// Price renders a per-share amount as "$1,234.56".
func Price(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Ratio renders a unitless figure such as a discount factor, "1.6105".
func Ratio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}
