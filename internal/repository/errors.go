// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a lookup by identifier finds no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateForTrip signals invariant U1: a non-terminal booking already
// exists for this (passenger, trip) pair.
var ErrDuplicateForTrip = errors.New("duplicate booking for trip")

// ErrDuplicateForDirection signals invariant U2: a non-terminal booking
// already exists for this passenger in the same direction.
var ErrDuplicateForDirection = errors.New("duplicate booking for direction")

// ErrTripUnavailable signals that a trip cannot accept new bookings because
// it is cancelled or its departure has already passed.
var ErrTripUnavailable = errors.New("trip unavailable")

// ErrTripAlreadyActive signals invariant A1: an IN_PROGRESS assignment
// already exists for the trip.
var ErrTripAlreadyActive = errors.New("trip already active")
