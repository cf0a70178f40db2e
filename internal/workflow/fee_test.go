package workflow

import (
	"testing"
	"time"
)

func TestBillableDays(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"zero elapsed", 0, 0},
		{"negative elapsed", -time.Hour, 0},
		{"one minute", time.Minute, 1},
		{"just under a day", 24*time.Hour - time.Second, 1},
		{"exactly one day", 24 * time.Hour, 1},
		{"just over a day", 24*time.Hour + time.Second, 2},
		{"exactly two days", 48 * time.Hour, 2},
		{"7.02 days", time.Duration(7.02 * 24 * float64(time.Hour)), 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BillableDays(base, base.Add(tc.elapsed))
			if got != tc.want {
				t.Fatalf("BillableDays(%v) = %d, want %d", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestFee(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// Partial days round up: 7.02 days at rate 2 bills 8 days.
	out := base.Add(-time.Duration(7.02 * 24 * float64(time.Hour)))
	if fee := Fee(2, out, base); fee != 16 {
		t.Fatalf("fee = %v, want 16", fee)
	}

	// Exact boundaries do not over-round: 2.0 days at rate 3 bills 2 days.
	out = base.Add(-48 * time.Hour)
	if fee := Fee(3, out, base); fee != 6 {
		t.Fatalf("fee = %v, want 6", fee)
	}
}
