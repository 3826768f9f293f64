package service

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bandhitl/bank-loan-optimizer/internal/cache"
	"github.com/bandhitl/bank-loan-optimizer/internal/calendar"
	"github.com/bandhitl/bank-loan-optimizer/internal/history"
	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
)

type spyCache struct {
	store map[string]loan.Result
	gets  int
	hits  int
	sets  int
}

func newSpyCache() *spyCache {
	return &spyCache{store: make(map[string]loan.Result)}
}

func (c *spyCache) Get(_ context.Context, key string) (loan.Result, bool) {
	c.gets++
	res, ok := c.store[key]
	if ok {
		c.hits++
	}
	return res, ok
}

func (c *spyCache) Set(_ context.Context, key string, res loan.Result) error {
	c.sets++
	c.store[key] = res
	return nil
}

type spyRecorder struct {
	runs []history.Run
	err  error
}

func (r *spyRecorder) RecordRun(_ context.Context, run history.Run) error {
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, run)
	return nil
}

func newTestService(c cache.PlanCache, rec RunRecorder) *PlanService {
	calc := loan.NewCalculator(calendar.Indonesia2025(), nil)
	return NewPlanService(calc, c, rec, nil)
}

func scenarioRequest() PlanRequest {
	return PlanRequest{
		Principal: decimal.RequireFromString("38000000000"),
		TotalDays: 30,
		StartDate: civil.Date{Year: 2025, Month: 5, Day: 29},
	}
}

func TestPlanDefaults(t *testing.T) {
	svc := newTestService(newSpyCache(), nil)

	// Only the required fields; month end, rates, and bank toggles
	// come from defaults.
	res, err := svc.Plan(context.Background(), scenarioRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if res.Best == nil {
		t.Fatal("Best = nil")
	}
	if res.Best.Name != "SCBT 1-week rolling" {
		t.Fatalf("Best.Name = %q, want %q", res.Best.Name, "SCBT 1-week rolling")
	}
	// CIMB enabled by default, Permata not.
	if len(res.Strategies) != 4 {
		t.Fatalf("len(Strategies) = %d, want 4", len(res.Strategies))
	}
	for _, s := range res.Strategies {
		if s.Name == "Permata 1-month" {
			t.Fatal("Permata built despite default toggles")
		}
	}
}

func TestPlanExplicitMonthEndMatchesDefault(t *testing.T) {
	c := newSpyCache()
	svc := newTestService(c, nil)
	ctx := context.Background()

	if _, err := svc.Plan(ctx, scenarioRequest()); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Spelling out what the defaults resolve to must hash to the same
	// cache entry.
	req := scenarioRequest()
	me := civil.Date{Year: 2025, Month: 5, Day: 31}
	req.MonthEnd = &me
	req.Rates = loan.DefaultBankRates()
	inc := loan.DefaultOptionalBanks()
	req.Include = &inc

	if _, err := svc.Plan(ctx, req); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if c.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", c.sets)
	}
	if c.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", c.hits)
	}
}

func TestPlanServesFromCache(t *testing.T) {
	c := newSpyCache()
	svc := newTestService(c, nil)
	ctx := context.Background()

	if _, err := svc.Plan(ctx, scenarioRequest()); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", c.sets)
	}

	// Poison the stored entry; a second identical request must return
	// it untouched, proving the calculator was not consulted.
	for k, v := range c.store {
		v.Best = &loan.Strategy{Name: "FROM CACHE"}
		c.store[k] = v
	}

	res, err := svc.Plan(ctx, scenarioRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.Best == nil || res.Best.Name != "FROM CACHE" {
		t.Fatalf("Best.Name = %v, want FROM CACHE", res.Best)
	}
	if c.sets != 1 {
		t.Fatalf("cache sets = %d after hit, want 1", c.sets)
	}
}

func TestPlanRecordsHistory(t *testing.T) {
	rec := &spyRecorder{}
	svc := newTestService(newSpyCache(), rec)

	res, err := svc.Plan(context.Background(), scenarioRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(rec.runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(rec.runs))
	}
	run := rec.runs[0]
	if run.BestStrategy != res.Best.Name {
		t.Fatalf("BestStrategy = %q, want %q", run.BestStrategy, res.Best.Name)
	}
	if !run.TotalInterest.Equal(res.Best.TotalInterest) {
		t.Fatalf("TotalInterest = %s, want %s", run.TotalInterest, res.Best.TotalInterest)
	}
	if run.MonthEnd != (civil.Date{Year: 2025, Month: 5, Day: 31}) {
		t.Fatalf("MonthEnd = %s, want 2025-05-31", run.MonthEnd)
	}
	if run.SegmentCount != len(res.Best.Segments) {
		t.Fatalf("SegmentCount = %d, want %d", run.SegmentCount, len(res.Best.Segments))
	}
}

func TestPlanHistoryFailureIsNotFatal(t *testing.T) {
	rec := &spyRecorder{err: errors.New("db down")}
	svc := newTestService(newSpyCache(), rec)

	res, err := svc.Plan(context.Background(), scenarioRequest())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.Best == nil {
		t.Fatal("Best = nil despite successful calculation")
	}
}

func TestPlanCacheHitSkipsHistory(t *testing.T) {
	rec := &spyRecorder{}
	svc := newTestService(newSpyCache(), rec)
	ctx := context.Background()

	if _, err := svc.Plan(ctx, scenarioRequest()); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if _, err := svc.Plan(ctx, scenarioRequest()); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(rec.runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1 (cache hit must not re-record)", len(rec.runs))
	}
}

func TestPlanInvalidInput(t *testing.T) {
	svc := newTestService(newSpyCache(), nil)

	req := scenarioRequest()
	req.Principal = decimal.Zero

	_, err := svc.Plan(context.Background(), req)
	if !errors.Is(err, loan.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCacheKeyDistinguishesInputs(t *testing.T) {
	a := normalize(scenarioRequest())

	b := normalize(scenarioRequest())
	b.TotalDays = 31

	ka, err := cacheKey(a)
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}
	kb, err := cacheKey(b)
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}
	if ka == kb {
		t.Fatal("different inputs hashed to the same key")
	}

	ka2, err := cacheKey(normalize(scenarioRequest()))
	if err != nil {
		t.Fatalf("cacheKey: %v", err)
	}
	if ka != ka2 {
		t.Fatalf("same input hashed differently: %s vs %s", ka, ka2)
	}
}
