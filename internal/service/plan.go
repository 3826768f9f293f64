// Package service wires the calculator to cache and history. Handlers
// talk to it instead of to the calculator directly.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bandhitl/bank-loan-optimizer/internal/cache"
	"github.com/bandhitl/bank-loan-optimizer/internal/calendar"
	"github.com/bandhitl/bank-loan-optimizer/internal/history"
	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
)

// RunRecorder is the slice of the history store the service needs.
type RunRecorder interface {
	RecordRun(ctx context.Context, r history.Run) error
}

// PlanRequest carries caller input before defaulting. Nil optional
// fields fall back to calendar month end, standard rates, and the
// default bank toggles.
type PlanRequest struct {
	Principal decimal.Decimal
	TotalDays int
	StartDate civil.Date
	MonthEnd  *civil.Date
	Rates     loan.BankRates
	Include   *loan.OptionalBanks
}

type PlanService struct {
	calc   *loan.Calculator
	cache  cache.PlanCache
	hist   RunRecorder
	logger *zap.Logger
}

// NewPlanService builds the service. hist may be nil when history is
// disabled.
func NewPlanService(calc *loan.Calculator, c cache.PlanCache, hist RunRecorder, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		calc:   calc,
		cache:  c,
		hist:   hist,
		logger: logger.Named("PlanService"),
	}
}

// Plan normalizes the request, consults the cache, and falls through to
// the calculator. Cache and history writes are best-effort.
func (s *PlanService) Plan(ctx context.Context, req PlanRequest) (loan.Result, error) {
	in := normalize(req)

	key, err := cacheKey(in)
	if err != nil {
		s.logger.Warn("cache key build failed", zap.Error(err))
		key = ""
	}
	if key != "" {
		if res, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug("cache hit", zap.String("key", key))
			return res, nil
		}
	}

	res, err := s.calc.OptimalStrategy(in)
	if err != nil {
		return loan.Result{}, err
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, res); err != nil {
			// not critical, the next identical request recomputes
			s.logger.Warn("cache save failed", zap.Error(err))
		}
	}
	s.record(ctx, in, res)

	return res, nil
}

func (s *PlanService) record(ctx context.Context, in loan.Input, res loan.Result) {
	if s.hist == nil || res.Best == nil {
		return
	}

	run := history.Run{
		Principal:       in.Principal,
		TotalDays:       in.TotalDays,
		StartDate:       in.StartDate,
		MonthEnd:        in.MonthEnd,
		BestStrategy:    res.Best.Name,
		TotalInterest:   res.Best.TotalInterest,
		AverageRate:     res.Best.AverageRate,
		CrossesMonthEnd: res.Best.CrossesMonthEnd,
		SegmentCount:    len(res.Best.Segments),
	}
	if err := s.hist.RecordRun(ctx, run); err != nil {
		// not critical, the plan was already served
		s.logger.Warn("history save failed", zap.Error(err))
	}
}

func normalize(req PlanRequest) loan.Input {
	in := loan.Input{
		Principal: req.Principal,
		TotalDays: req.TotalDays,
		StartDate: req.StartDate,
	}

	if req.MonthEnd != nil {
		in.MonthEnd = *req.MonthEnd
	} else if req.StartDate.IsValid() {
		in.MonthEnd = calendar.MonthEnd(req.StartDate)
	}

	if req.Rates != nil {
		in.Rates = req.Rates
	} else {
		in.Rates = loan.DefaultBankRates()
	}

	if req.Include != nil {
		in.Include = *req.Include
	} else {
		in.Include = loan.DefaultOptionalBanks()
	}

	return in
}

// cacheKey hashes the normalized input, so a request with defaults
// filled in and one spelling them out share an entry. encoding/json
// sorts map keys, which keeps the hash stable.
func cacheKey(in loan.Input) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "plan:" + hex.EncodeToString(sum[:]), nil
}
