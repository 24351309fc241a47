package model

import "time"

// Direction is the travel direction of a trip.
type Direction string

const (
	DirectionAToB Direction = "A_TO_B"
	DirectionBToA Direction = "B_TO_A"
)

// DayClass distinguishes weekday from weekend scheduling.
type DayClass string

const (
	DayWeekday DayClass = "WEEKDAY"
	DayWeekend DayClass = "WEEKEND"
)

// TripStatus enumerates the administrative state of a trip.
type TripStatus string

const (
	TripActive    TripStatus = "ACTIVE"
	TripCancelled TripStatus = "CANCELLED"
	TripCompleted TripStatus = "COMPLETED"
)

// DefaultCapacity and DefaultFacultyReserve are the trip defaults from
// spec.md §3.
const (
	DefaultCapacity       = 35
	DefaultFacultyReserve = 5
	MaxCapacity           = 50
)

// Trip represents a scheduled bus run as stored in the `trips` table.
// Immutable after its first booking except Status.
//
// Fields:
//
//	ID              – trips.id
//	Direction       – trips.direction
//	Destination     – trips.destination (nullable)
//	BusLabel        – trips.bus_label (nullable)
//	Date            – trips.trip_date
//	DepartureTime   – trips.departure_time (UTC instant)
//	Capacity        – trips.capacity
//	FacultyReserved – trips.faculty_reserved
//	Status          – trips.status
//	DayClass        – trips.day_class
type Trip struct {
	ID              uint64
	Direction       Direction
	Destination     *string
	BusLabel        *string
	Date            time.Time
	DepartureTime   time.Time
	Capacity        int
	FacultyReserved int
	Status          TripStatus
	DayClass        DayClass
}

// AvailableSeats returns the number of seats passengers may claim, i.e.
// capacity minus the faculty reservation.
func (t Trip) AvailableSeats() int {
	return t.Capacity - t.FacultyReserved
}

// Bookable reports whether a booking attempt against this trip may proceed:
// the trip must still be ACTIVE and its departure must not be in the past.
func (t Trip) Bookable(now time.Time) bool {
	return t.Status == TripActive && !t.DepartureTime.Before(now)
}
