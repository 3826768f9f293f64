package cache

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
)

func sampleResult(t *testing.T) loan.Result {
	t.Helper()
	s := loan.Strategy{
		Name: "SCBT 1-week rolling",
		Segments: []loan.Segment{
			{
				Lender:    "SCBT 1w",
				Rate:      decimal.RequireFromString("6.20"),
				StartDate: civil.Date{Year: 2025, Month: 5, Day: 29},
				EndDate:   civil.Date{Year: 2025, Month: 5, Day: 31},
				Days:      3,
				Interest:  decimal.RequireFromString("19315068.49"),
			},
		},
		TotalInterest: decimal.RequireFromString("19315068.49"),
		AverageRate:   decimal.RequireFromString("6.20"),
		Valid:         true,
	}
	return loan.Result{Strategies: []loan.Strategy{s}, Best: &s}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	want := sampleResult(t)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}
	if err := c.Set(ctx, "k", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("Get after Set reported a miss")
	}
	if got.Best == nil || got.Best.Name != want.Best.Name {
		t.Fatalf("cached best = %+v, want name %q", got.Best, want.Best.Name)
	}
	if !got.Best.TotalInterest.Equal(want.Best.TotalInterest) {
		t.Fatalf("cached total = %s, want %s", got.Best.TotalInterest, want.Best.TotalInterest)
	}

	if _, ok := c.Get(ctx, "other"); ok {
		t.Fatal("Get with unknown key reported a hit")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()

	// A negative ttl expires entries immediately.
	c := NewMemory(-time.Second)
	if err := c.Set(ctx, "k", sampleResult(t)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expired entry reported as a hit")
	}

	// A zero ttl keeps entries forever.
	c = NewMemory(0)
	if err := c.Set(ctx, "k", sampleResult(t)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry with no ttl reported as a miss")
	}
}

func TestResultRoundTrip(t *testing.T) {
	want := sampleResult(t)

	b, err := encodeResult(want)
	if err != nil {
		t.Fatalf("encodeResult: %v", err)
	}
	got, err := decodeResult(b)
	if err != nil {
		t.Fatalf("decodeResult: %v", err)
	}

	if len(got.Strategies) != 1 {
		t.Fatalf("Strategies = %d, want 1", len(got.Strategies))
	}
	if got.Best == nil {
		t.Fatal("Best lost in round trip")
	}
	seg := got.Best.Segments[0]
	if seg.StartDate != want.Best.Segments[0].StartDate {
		t.Fatalf("StartDate = %s, want %s", seg.StartDate, want.Best.Segments[0].StartDate)
	}
	if !seg.Interest.Equal(want.Best.Segments[0].Interest) {
		t.Fatalf("Interest = %s, want %s", seg.Interest, want.Best.Segments[0].Interest)
	}
}
