// Package report renders strategies as plain text for terminals and
// chat-ops surfaces. Nothing here feeds back into the calculation.
package report

import (
	"fmt"
	"strings"

	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
	"github.com/bandhitl/bank-loan-optimizer/internal/money"
)

// Breakdown returns a segment-by-segment account of one strategy.
func Breakdown(s loan.Strategy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Strategy: %s\n", s.Name)
	if !s.Valid {
		fmt.Fprintf(&b, "  not viable: %s\n", s.Reason)
		return b.String()
	}

	days := 0
	for i, seg := range s.Segments {
		days += seg.Days
		mark := ""
		if seg.CrossesMonthEnd {
			mark = "  [cross-month]"
		}
		fmt.Fprintf(&b, "  %2d. %-10s  %s -> %s  %3dd @ %s%%  %s%s\n",
			i+1,
			seg.Lender,
			seg.StartDate,
			seg.EndDate,
			seg.Days,
			seg.Rate.StringFixed(2),
			money.Format(seg.Interest),
			mark,
		)
	}

	fmt.Fprintf(&b, "Total: %d days, interest %s IDR, average rate %s%%\n",
		days,
		money.Format(s.TotalInterest),
		s.AverageRate.StringFixed(2),
	)
	return b.String()
}

// Comparison lists every strategy with its headline cost in the order
// given, flagging the best one.
func Comparison(strategies []loan.Strategy, best *loan.Strategy) string {
	var b strings.Builder

	for _, s := range strategies {
		marker := " "
		if best != nil && s.Name == best.Name {
			marker = "*"
		}
		if !s.Valid {
			fmt.Fprintf(&b, "%s %-22s not viable (%s)\n", marker, s.Name, s.Reason)
			continue
		}
		fmt.Fprintf(&b, "%s %-22s %s IDR @ avg %s%%\n",
			marker, s.Name, money.Format(s.TotalInterest), s.AverageRate.StringFixed(2))
	}
	return b.String()
}
