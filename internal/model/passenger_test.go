package model

import (
	"testing"
	"time"
)

func TestPassengerBlocked(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name string
		p    Passenger
		want bool
	}{
		{"under penalty threshold", Passenger{PenaltyCount: 2, BlockedUntil: &future}, false},
		{"at threshold with future block", Passenger{PenaltyCount: 3, BlockedUntil: &future}, true},
		{"above threshold with future block", Passenger{PenaltyCount: 5, BlockedUntil: &future}, true},
		{"at threshold but block expired", Passenger{PenaltyCount: 3, BlockedUntil: &past}, false},
		{"at threshold but no block set", Passenger{PenaltyCount: 3, BlockedUntil: nil}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Blocked(now); got != tc.want {
				t.Fatalf("Blocked() = %v, want %v", got, tc.want)
			}
		})
	}
}
