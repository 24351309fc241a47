package model

import "time"

// BookingStatus enumerates the booking state machine from spec.md §4.9.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingWaitlist  BookingStatus = "WAITLIST"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingBoarded   BookingStatus = "BOARDED"
)

// NonTerminal reports whether a status still holds a live claim on a trip,
// i.e. {CONFIRMED, WAITLIST, BOARDED} as opposed to CANCELLED.
func (s BookingStatus) NonTerminal() bool {
	return s == BookingConfirmed || s == BookingWaitlist || s == BookingBoarded
}

// Booking represents a passenger's claim on a trip seat, stored in the
// `bookings` table.
//
// Fields:
//
//	ID               – bookings.id
//	PassengerID      – bookings.passenger_id
//	TripID           – bookings.trip_id
//	Status           – bookings.status
//	BoardingToken    – bookings.boarding_token (nullable, set iff CONFIRMED/BOARDED)
//	CreatedAt        – bookings.created_at
//	BoardedAt        – bookings.boarded_at (nullable)
//	WaitlistPosition – bookings.waitlist_position (nullable, set iff WAITLIST)
type Booking struct {
	ID               uint64
	PassengerID      uint64
	TripID           uint64
	Status           BookingStatus
	BoardingToken    *string
	CreatedAt        time.Time
	BoardedAt        *time.Time
	WaitlistPosition *int
}
