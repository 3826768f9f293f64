// Package money holds the interest arithmetic and display formatting.
// All amounts and rates are decimal (no floats for money).
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// Interest returns simple interest on principal at an annual percent rate
// over days calendar days: principal * (rate/100) * (days/365).
func Interest(principal, annualPct decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return principal.
		Mul(annualPct).
		Mul(decimal.NewFromInt(int64(days))).
		Div(hundred.Mul(daysPerYear))
}

// Format renders an amount as whole currency units with thousands
// separators, e.g. 200,098,630. IDR carries no minor unit in practice.
func Format(d decimal.Decimal) string {
	return FormatFixed(d, 0)
}

// FormatFixed renders an amount with the given number of decimal places
// and thousands separators on the integer part.
func FormatFixed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	n := len(intPart)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
