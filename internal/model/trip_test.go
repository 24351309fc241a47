package model

import (
	"testing"
	"time"
)

func TestTripAvailableSeats(t *testing.T) {
	tr := Trip{Capacity: 35, FacultyReserved: 5}
	if got := tr.AvailableSeats(); got != 30 {
		t.Fatalf("AvailableSeats() = %d, want 30", got)
	}
}

func TestTripBookable(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		trip Trip
		want bool
	}{
		{"active and future", Trip{Status: TripActive, DepartureTime: now.Add(time.Hour)}, true},
		{"active and departing now", Trip{Status: TripActive, DepartureTime: now}, true},
		{"active but past", Trip{Status: TripActive, DepartureTime: now.Add(-time.Minute)}, false},
		{"cancelled", Trip{Status: TripCancelled, DepartureTime: now.Add(time.Hour)}, false},
		{"completed", Trip{Status: TripCompleted, DepartureTime: now.Add(time.Hour)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.trip.Bookable(now); got != tc.want {
				t.Fatalf("Bookable() = %v, want %v", got, tc.want)
			}
		})
	}
}
