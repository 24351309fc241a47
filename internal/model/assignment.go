package model

import "time"

// AssignmentStatus enumerates the operator-trip assignment lifecycle.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "ASSIGNED"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentCancelled  AssignmentStatus = "CANCELLED"
)

// TripAssignment binds an operator to a trip for a single run, stored in the
// `trip_assignments` table. A trip may only have one IN_PROGRESS assignment
// at a time.
//
// Fields:
//
//	ID          – trip_assignments.id
//	TripID      – trip_assignments.trip_id
//	OperatorID  – trip_assignments.operator_id
//	BusLabel    – trip_assignments.bus_label (nullable)
//	AssignedAt  – trip_assignments.assigned_at
//	StartedAt   – trip_assignments.started_at (nullable)
//	CompletedAt – trip_assignments.completed_at (nullable)
//	Status      – trip_assignments.status
type TripAssignment struct {
	ID          uint64
	TripID      uint64
	OperatorID  uint64
	BusLabel    *string
	AssignedAt  time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Status      AssignmentStatus
}

// DurationMinutes returns the elapsed run time once both StartedAt and
// CompletedAt are set, or zero otherwise.
func (a TripAssignment) DurationMinutes() int {
	if a.StartedAt == nil || a.CompletedAt == nil {
		return 0
	}
	return int(a.CompletedAt.Sub(*a.StartedAt).Minutes())
}
