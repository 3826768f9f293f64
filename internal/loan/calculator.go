package loan

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bandhitl/bank-loan-optimizer/internal/calendar"
	"github.com/bandhitl/bank-loan-optimizer/internal/money"
)

// ErrInvalidInput rejects a whole calculation request. Per-strategy
// construction failures never carry it; they only mark that strategy
// invalid.
var ErrInvalidInput = errors.New("invalid input")

// A roll boundary may be pushed back at most this many days to find a
// business day. Needing more means the template cannot be laid out.
const maxBoundaryShifts = 7

// citiCallLender labels sub-segments funded by the call loan that bridges
// month-end crossings.
const citiCallLender = "CITI Call"

// Input is one complete pricing request.
type Input struct {
	Principal decimal.Decimal
	TotalDays int
	StartDate civil.Date
	MonthEnd  civil.Date
	Rates     BankRates
	Include   OptionalBanks
}

// Result carries every generated strategy in catalogue order. Best is nil
// when no strategy survived construction.
type Result struct {
	Strategies []Strategy
	Best       *Strategy
}

// Calculator prices the strategy catalogue against funding requests.
// It holds only read-only state and is safe for concurrent use.
type Calculator struct {
	cal    *calendar.Calendar
	logger *zap.Logger
}

func NewCalculator(cal *calendar.Calendar, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{cal: cal, logger: logger.Named("Calculator")}
}

// OptimalStrategy generates every enabled strategy for the request and
// selects the cheapest valid one. Strategies that cannot be laid out are
// returned with Valid=false; they never abort the call.
func (c *Calculator) OptimalStrategy(in Input) (Result, error) {
	if err := c.validate(in); err != nil {
		return Result{}, err
	}
	rates := in.Rates.clone()

	loanEnd := in.StartDate.AddDays(in.TotalDays - 1)
	monthEnds := calendar.MonthEndsWithin(in.StartDate, loanEnd)
	if len(monthEnds) == 0 {
		monthEnds = []civil.Date{in.MonthEnd}
	}

	c.logger.Debug("pricing request",
		zap.String("principal", in.Principal.String()),
		zap.Int("total_days", in.TotalDays),
		zap.String("start", in.StartDate.String()),
		zap.String("loan_end", loanEnd.String()),
		zap.Int("month_ends", len(monthEnds)),
	)

	var res Result
	for _, t := range catalogue() {
		if !t.enabled(in.Include) {
			continue
		}
		res.Strategies = append(res.Strategies, c.buildStrategy(t, in, rates, monthEnds))
	}

	for i := range res.Strategies {
		s := res.Strategies[i]
		if !s.Valid {
			continue
		}
		if res.Best == nil || s.TotalInterest.LessThan(res.Best.TotalInterest) {
			best := s
			res.Best = &best
		}
	}

	if res.Best != nil {
		c.logger.Info("optimal strategy selected",
			zap.String("strategy", res.Best.Name),
			zap.String("total_interest", res.Best.TotalInterest.StringFixed(0)),
			zap.String("average_rate", res.Best.AverageRate.StringFixed(2)),
		)
	} else {
		c.logger.Warn("no strategy survived construction")
	}
	return res, nil
}

func (c *Calculator) validate(in Input) error {
	if !in.Principal.IsPositive() {
		return fmt.Errorf("principal must be positive: %w", ErrInvalidInput)
	}
	if in.TotalDays <= 0 {
		return fmt.Errorf("total days must be positive: %w", ErrInvalidInput)
	}
	if !in.StartDate.IsValid() {
		return fmt.Errorf("start date %v is not a calendar date: %w", in.StartDate, ErrInvalidInput)
	}
	if !in.MonthEnd.IsValid() {
		return fmt.Errorf("month end %v is not a calendar date: %w", in.MonthEnd, ErrInvalidInput)
	}
	if in.StartDate.After(in.MonthEnd) {
		return fmt.Errorf("month end %s precedes start date %s: %w", in.MonthEnd, in.StartDate, ErrInvalidInput)
	}
	for _, t := range catalogue() {
		if !t.enabled(in.Include) {
			continue
		}
		if _, ok := in.Rates[t.rateID]; !ok {
			return fmt.Errorf("rate sheet is missing %q: %w", t.rateID, ErrInvalidInput)
		}
	}
	if _, ok := in.Rates[RateGeneralCrossMonth]; !ok {
		return fmt.Errorf("rate sheet is missing %q: %w", RateGeneralCrossMonth, ErrInvalidInput)
	}
	return nil
}

func (c *Calculator) buildStrategy(t template, in Input, rates BankRates, monthEnds []civil.Date) Strategy {
	segs, err := c.buildSegments(t, in, rates, monthEnds)
	if err != nil {
		c.logger.Warn("strategy construction failed",
			zap.String("strategy", t.name),
			zap.Error(err),
		)
		return Strategy{Name: t.name, Reason: err.Error()}
	}

	days := 0
	for _, seg := range segs {
		days += seg.Days
	}
	if days != in.TotalDays {
		return Strategy{
			Name:   t.name,
			Reason: fmt.Sprintf("segments cover %d days, want %d", days, in.TotalDays),
		}
	}
	return newStrategy(t.name, segs)
}

// buildSegments walks the loan period in template-sized chunks.
//
// Each chunk end must land on a business day: a weekend or holiday end is
// pulled backward, shrinking the chunk, and the following chunk starts the
// day after and absorbs the freed days. A chunk is never shrunk below one
// day; a one-day chunk may end on a non-business day, with the roll
// transaction value-dated to the preceding business day.
//
// A chunk that continues past a month-end is split there: the portion up
// to and including the month-end keeps the product rate, the remainder is
// funded at the bridge rate so the product rate never crosses the month
// boundary.
func (c *Calculator) buildSegments(t template, in Input, rates BankRates, monthEnds []civil.Date) ([]Segment, error) {
	standard := rates[t.rateID]
	chunk := t.chunkDays
	if chunk == 0 {
		chunk = in.TotalDays
	}

	var segs []Segment
	cur := in.StartDate
	remaining := in.TotalDays

	for remaining > 0 {
		size := chunk
		if remaining < size {
			size = remaining
		}
		proposed := cur.AddDays(size - 1)
		end := proposed

		shifts := 0
		for size > 1 && !c.cal.IsBusinessDay(end) {
			if shifts == maxBoundaryShifts {
				return nil, fmt.Errorf("no business day within %d days before %s", maxBoundaryShifts, proposed)
			}
			size--
			end = cur.AddDays(size - 1)
			shifts++
		}
		if shifts > 0 {
			c.logger.Debug("boundary shifted",
				zap.String("strategy", t.name),
				zap.String("proposed", proposed.String()),
				zap.String("adjusted", end.String()),
				zap.Int("shifts", shifts),
			)
		}

		if me, crossed := firstCrossedMonthEnd(cur, end, monthEnds); crossed {
			bridgeLender, bridgeRate := bridge(t.lender, rates)
			segs = append(segs,
				c.segment(t.lender, standard, cur, me, in.Principal, false),
				c.segment(bridgeLender, bridgeRate, me.AddDays(1), end, in.Principal, true),
			)
		} else {
			segs = append(segs, c.segment(t.lender, standard, cur, end, in.Principal, false))
		}

		remaining -= end.DaysSince(cur) + 1
		cur = end.AddDays(1)
	}
	return segs, nil
}

// bridge picks the funding for the post-month-end portion: the call loan
// when it is on the sheet and not more expensive than the general
// cross-month penalty, the penalty rate at the product's own desk
// otherwise.
func bridge(lender string, rates BankRates) (string, decimal.Decimal) {
	penalty := rates[RateGeneralCrossMonth]
	if call, ok := rates[RateCitiCall]; ok && call.LessThanOrEqual(penalty) {
		return citiCallLender, call
	}
	return lender, penalty
}

// firstCrossedMonthEnd returns the earliest month-end the range
// [start, end] continues past, i.e. start <= me < end.
func firstCrossedMonthEnd(start, end civil.Date, monthEnds []civil.Date) (civil.Date, bool) {
	for _, me := range monthEnds {
		if !start.After(me) && end.After(me) {
			return me, true
		}
	}
	return civil.Date{}, false
}

func (c *Calculator) segment(lender string, rate decimal.Decimal, start, end civil.Date, principal decimal.Decimal, crosses bool) Segment {
	days := end.DaysSince(start) + 1
	seg := Segment{
		Lender:          lender,
		Rate:            rate,
		StartDate:       start,
		EndDate:         end,
		Days:            days,
		Interest:        money.Interest(principal, rate, days),
		CrossesMonthEnd: crosses,
	}
	c.logger.Debug("segment",
		zap.String("lender", lender),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.Int("days", days),
		zap.String("rate", rate.String()),
		zap.Bool("crosses_month_end", crosses),
	)
	return seg
}
