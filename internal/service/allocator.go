// Package service implements the components that sit between the HTTP
// boundary and IDS/COORD: ALLOC, WLM, BV, OPS, TEL, and EVID from
// spec.md §4. Each composes repository calls inside a single transaction
// the way the teacher composes hold-then-reserve steps in
// internal/handler/customer_reservation.go (tx, committed bool, deferred
// rollback), only moved down a layer so handlers stay thin per BND's
// stated responsibility (parse/dispatch/serialise only).
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campusbus/reservation-core/internal/broker"
	"github.com/campusbus/reservation-core/internal/coord"
	"github.com/campusbus/reservation-core/internal/logger"
	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/token"
)

// Allocator implements ALLOC: the booking engine of spec.md §4.3.
type Allocator struct {
	Passengers *repository.PassengerRepo
	Trips      *repository.TripRepo
	Bookings   *repository.BookingRepo
	Locker     *coord.Locker
	Tokens     *token.Service
	Lifecycle  *broker.LifecyclePublisher
	Log        logger.Logger
}

// BookResult is the outcome of a successful Book call.
type BookResult struct {
	BookingID        uint64
	Status           model.BookingStatus
	BoardingToken    *string
	WaitlistPosition *int
}

// Book implements ALLOC.book(passengerId, tripId) per spec.md §4.3.
func (a *Allocator) Book(ctx context.Context, passengerID, tripID uint64) (BookResult, error) {
	now := time.Now().UTC()

	passenger, err := a.Passengers.GetByID(ctx, passengerID)
	if err != nil {
		return BookResult{}, mapNotFound(err)
	}
	if passenger.Blocked(now) {
		return BookResult{}, ErrBlocked
	}

	trip, err := a.Trips.GetByID(ctx, tripID)
	if err != nil {
		if err == repository.ErrNotFound {
			return BookResult{}, ErrTripUnavailable
		}
		return BookResult{}, err
	}
	if !trip.Bookable(now) {
		return BookResult{}, ErrTripUnavailable
	}

	db := a.Trips.DB()

	// Cheap pre-checks outside the lock, same rationale as spec.md §4.3 step 3-4:
	// avoid wasting a lock slot on requests that will fail anyway.
	if dup, err := a.nonTerminalForTrip(ctx, db, passengerID, tripID); err != nil {
		return BookResult{}, err
	} else if dup {
		return BookResult{}, ErrDuplicateForTrip
	}
	if dup, err := a.nonTerminalForDirection(ctx, db, passengerID, trip.Direction); err != nil {
		return BookResult{}, err
	} else if dup {
		return BookResult{}, ErrDuplicateForDirection
	}

	lockKey := fmt.Sprintf("book:%d", tripID)
	handle, err := a.Locker.Acquire(ctx, lockKey)
	if err != nil {
		if err == coord.ErrUnavailable {
			return BookResult{}, ErrConcurrentRequest
		}
		if err == coord.ErrNotConfigured {
			return BookResult{}, ErrStoreUnavailable
		}
		return BookResult{}, err
	}
	defer func() { _ = handle.Release(context.Background()) }()

	// U2 spans trips: two concurrent book() calls for different trips of the
	// same direction both pass the book:{tripId} lock above untouched, so a
	// second, per-passenger-per-direction lock closes that race per
	// DESIGN.md's open-question decision.
	dirKey := fmt.Sprintf("direction:%d:%s", passengerID, trip.Direction)
	dirHandle, err := a.Locker.Acquire(ctx, dirKey)
	if err != nil {
		if err == coord.ErrUnavailable {
			return BookResult{}, ErrConcurrentRequest
		}
		if err == coord.ErrNotConfigured {
			return BookResult{}, ErrStoreUnavailable
		}
		return BookResult{}, err
	}
	defer func() { _ = dirHandle.Release(context.Background()) }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return BookResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Authoritative re-check inside the transaction.
	if dup, err := a.Bookings.NonTerminalForTripTx(ctx, tx, passengerID, tripID); err != nil {
		return BookResult{}, err
	} else if dup {
		return BookResult{}, ErrDuplicateForTrip
	}
	if dup, err := a.Bookings.NonTerminalForDirectionTx(ctx, tx, passengerID, trip.Direction); err != nil {
		return BookResult{}, err
	} else if dup {
		return BookResult{}, ErrDuplicateForDirection
	}

	lockedTrip, err := a.Trips.GetByIDTx(ctx, tx, tripID)
	if err != nil {
		return BookResult{}, err
	}

	k, err := a.Bookings.ConfirmedAndBoardedCountTx(ctx, tx, tripID)
	if err != nil {
		return BookResult{}, err
	}

	var result BookResult
	if k < lockedTrip.AvailableSeats() {
		// The boarding token's subject is the bookingId, which only exists
		// once the row is inserted, so the insert runs before signing.
		booking, err := a.Bookings.InsertConfirmedTx(ctx, tx, passengerID, tripID, "")
		if err != nil {
			return BookResult{}, err
		}
		signed, err := a.Tokens.IssueBoardingToken(booking.ID, tripID, passengerID, lockedTrip.DepartureTime)
		if err != nil {
			return BookResult{}, err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE bookings SET boarding_token = ? WHERE id = ?`, signed.Token, booking.ID); err != nil {
			return BookResult{}, err
		}
		result = BookResult{BookingID: booking.ID, Status: model.BookingConfirmed, BoardingToken: &signed.Token}
	} else {
		maxPos, err := a.Bookings.MaxWaitlistPositionTx(ctx, tx, tripID)
		if err != nil {
			return BookResult{}, err
		}
		position := maxPos + 1
		booking, err := a.Bookings.InsertWaitlistTx(ctx, tx, passengerID, tripID, position)
		if err != nil {
			return BookResult{}, err
		}
		result = BookResult{BookingID: booking.ID, Status: model.BookingWaitlist, WaitlistPosition: &position}
	}

	if err := tx.Commit(); err != nil {
		return BookResult{}, err
	}
	committed = true
	a.publishLifecycle(ctx, result, passengerID, tripID, now)
	return result, nil
}

// publishLifecycle emits a best-effort audit event for the new booking.
// Failures are logged, never surfaced: the booking itself already
// committed, and spec.md §2 treats the lifecycle trail as ambient
// observability, not a correctness dependency.
func (a *Allocator) publishLifecycle(ctx context.Context, result BookResult, passengerID, tripID uint64, now time.Time) {
	if a.Lifecycle == nil {
		return
	}
	transition := "CONFIRMED"
	if result.Status == model.BookingWaitlist {
		transition = "WAITLISTED"
	}
	ev := broker.BookingLifecycleEvent{
		BookingID:   result.BookingID,
		PassengerID: passengerID,
		TripID:      tripID,
		Transition:  transition,
		OccurredAt:  now.Format(time.RFC3339),
	}
	if err := a.Lifecycle.Publish(ctx, ev); err != nil && a.Log != nil {
		a.Log.Warn("lifecycle publish failed", "bookingId", result.BookingID, "error", err.Error())
	}
}

func (a *Allocator) nonTerminalForTrip(ctx context.Context, db *sql.DB, passengerID, tripID uint64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE passenger_id = ? AND trip_id = ? AND status IN ('CONFIRMED','WAITLIST','BOARDED')`,
		passengerID, tripID).Scan(&count)
	return count > 0, err
}

func (a *Allocator) nonTerminalForDirection(ctx context.Context, db *sql.DB, passengerID uint64, direction model.Direction) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.passenger_id = ? AND t.direction = ? AND b.status IN ('CONFIRMED','WAITLIST','BOARDED')`,
		passengerID, direction).Scan(&count)
	return count > 0, err
}

func mapNotFound(err error) error {
	if err == repository.ErrNotFound {
		return ErrNotFound
	}
	return err
}
