package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%q): %v", s, err)
	}
	return d
}

func TestInterest(t *testing.T) {
	t.Run("divides out exactly", func(t *testing.T) {
		// 365000 at 10% is 100 per day.
		got := Interest(dec(t, "365000"), dec(t, "10"), 73)
		if !got.Equal(dec(t, "7300")) {
			t.Fatalf("interest = %s, want 7300", got)
		}
	})

	t.Run("full year at full rate returns principal", func(t *testing.T) {
		got := Interest(dec(t, "5000"), dec(t, "100"), 365)
		if !got.Equal(dec(t, "5000")) {
			t.Fatalf("interest = %s, want 5000", got)
		}
	})

	t.Run("scenario headline segment", func(t *testing.T) {
		// 38,000,000,000 IDR at 7.75% for 4 days.
		got := Interest(dec(t, "38000000000"), dec(t, "7.75"), 4)
		if got.StringFixed(0) != "32273973" {
			t.Fatalf("interest = %s, want ~32273973", got.StringFixed(0))
		}
	})

	t.Run("zero days", func(t *testing.T) {
		got := Interest(dec(t, "1000"), dec(t, "8.5"), 0)
		if !got.IsZero() {
			t.Fatalf("interest = %s, want 0", got)
		}
	})
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   string
	}{
		{"0", 0, "0"},
		{"999", 0, "999"},
		{"1000", 0, "1,000"},
		{"200098630.137", 0, "200,098,630"},
		{"38000000000", 0, "38,000,000,000"},
		{"-4500.5", 2, "-4,500.50"},
		{"6.2", 2, "6.20"},
	}
	for _, tc := range cases {
		got := FormatFixed(dec(t, tc.in), tc.places)
		if got != tc.want {
			t.Fatalf("FormatFixed(%s, %d) = %q, want %q", tc.in, tc.places, got, tc.want)
		}
	}
}
