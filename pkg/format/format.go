// Package format renders amounts and verdicts the way Vietnamese reviewers read them.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	thousandsSep = "."
	currencySign = "₫"
)

// Number groups the integer part of amount with '.' after rounding to whole units.
func Number(amount float64) string {
	return group(decimal.NewFromFloat(amount).Round(0).StringFixed(0))
}

// VND formats amount as whole dong, e.g. "80.000.000.000 ₫".
func VND(amount float64) string {
	return Number(amount) + " " + currencySign
}

// Percent renders a ratio as a percentage with two decimals, e.g. 0.1234 -> "12.34%".
func Percent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// PercentPtr renders nil as "N/A".
func PercentPtr(ratio *float64) string {
	if ratio == nil {
		return "N/A"
	}
	return Percent(*ratio)
}

var (
	billion = decimal.New(1, 9)
	million = decimal.New(1, 6)
)

// Short abbreviates large amounts for chart axes: "80.0B", "350M".
func Short(amount float64) string {
	d := decimal.NewFromFloat(amount)
	switch abs := d.Abs(); {
	case abs.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(0) + "M"
	}
	return d.Round(0).String()
}

func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) <= 3 {
		if neg && s != "0" {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(thousandsSep)
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var verdictLabels = map[string]string{
	"SAFE":    "An toàn",
	"RISK":    "Rủi ro cao",
	"WARNING": "Cảnh báo",
	"UNKNOWN": "Chưa xác định",
}

// VerdictLabel returns the Vietnamese badge text for a verdict code.
func VerdictLabel(verdict string) string {
	if l, ok := verdictLabels[verdict]; ok {
		return l
	}
	return verdictLabels["UNKNOWN"]
}
