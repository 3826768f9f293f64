package loan

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Segment is one contiguous borrowing slice funded by a single desk at a
// single rate. Date ranges are inclusive on both ends.
type Segment struct {
	Lender          string
	Rate            decimal.Decimal // annual percent
	StartDate       civil.Date
	EndDate         civil.Date
	Days            int
	Interest        decimal.Decimal
	CrossesMonthEnd bool
}

// Strategy is a fully priced funding plan covering the whole loan period.
// It is built once per calculation and never mutated afterwards.
type Strategy struct {
	Name            string
	Segments        []Segment
	TotalInterest   decimal.Decimal
	AverageRate     decimal.Decimal // day-weighted annual percent
	CrossesMonthEnd bool
	MultiBank       bool
	Valid           bool
	Reason          string // construction failure, empty when Valid
}

func newStrategy(name string, segs []Segment) Strategy {
	s := Strategy{Name: name, Segments: segs, Valid: true}

	weighted := decimal.Zero
	days := 0
	lenders := make(map[string]struct{}, 2)
	for _, seg := range segs {
		s.TotalInterest = s.TotalInterest.Add(seg.Interest)
		weighted = weighted.Add(seg.Rate.Mul(decimal.NewFromInt(int64(seg.Days))))
		days += seg.Days
		lenders[seg.Lender] = struct{}{}
		if seg.CrossesMonthEnd {
			s.CrossesMonthEnd = true
		}
	}
	if days > 0 {
		s.AverageRate = weighted.Div(decimal.NewFromInt(int64(days)))
	}
	s.MultiBank = len(lenders) > 1
	return s
}
