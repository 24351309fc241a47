package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusbus/reservation-core/internal/broker"
	"github.com/campusbus/reservation-core/internal/coord"
	"github.com/campusbus/reservation-core/internal/logger"
	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/token"
)

// Waitlist implements WLM: cancellation and FIFO promotion per spec.md §4.4.
type Waitlist struct {
	Trips     *repository.TripRepo
	Bookings  *repository.BookingRepo
	Locker    *coord.Locker
	Tokens    *token.Service
	Lifecycle *broker.LifecyclePublisher
	Log       logger.Logger
}

// CancelResult reports what happened to the cancelled booking and, if a
// waitlisted passenger was promoted as a result, who.
type CancelResult struct {
	Promoted          bool
	PromotedBookingID uint64
	PromotedPassenger uint64
	PromotedToken     string
}

// Cancel implements WLM.cancel(passengerId, bookingId) per spec.md §4.4.
func (w *Waitlist) Cancel(ctx context.Context, passengerID, bookingID uint64) (CancelResult, error) {
	db := w.Trips.DB()

	booking, err := w.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return CancelResult{}, mapNotFound(err)
	}
	if booking.PassengerID != passengerID {
		return CancelResult{}, ErrForbidden
	}
	switch booking.Status {
	case model.BookingCancelled:
		return CancelResult{}, ErrAlreadyCancelled
	case model.BookingBoarded:
		return CancelResult{}, ErrAlreadyBoarded
	}

	lockKey := fmt.Sprintf("cancel:%d", booking.TripID)
	handle, err := w.Locker.Acquire(ctx, lockKey)
	if err != nil {
		if err == coord.ErrUnavailable {
			return CancelResult{}, ErrConcurrentRequest
		}
		if err == coord.ErrNotConfigured {
			return CancelResult{}, ErrStoreUnavailable
		}
		return CancelResult{}, err
	}
	defer func() { _ = handle.Release(context.Background()) }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return CancelResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := w.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return CancelResult{}, err
	}
	switch locked.Status {
	case model.BookingCancelled:
		return CancelResult{}, ErrAlreadyCancelled
	case model.BookingBoarded:
		return CancelResult{}, ErrAlreadyBoarded
	}

	wasConfirmed := locked.Status == model.BookingConfirmed
	if err := w.Bookings.CancelTx(ctx, tx, bookingID); err != nil {
		return CancelResult{}, err
	}

	var result CancelResult
	if wasConfirmed {
		next, err := w.Bookings.FirstWaitlistedTx(ctx, tx, locked.TripID)
		if err == nil {
			trip, err := w.Trips.GetByIDTx(ctx, tx, locked.TripID)
			if err != nil {
				return CancelResult{}, err
			}
			signed, err := w.Tokens.IssueBoardingToken(next.ID, trip.ID, next.PassengerID, trip.DepartureTime)
			if err != nil {
				return CancelResult{}, err
			}
			if err := w.Bookings.PromoteTx(ctx, tx, next.ID, signed.Token); err != nil {
				return CancelResult{}, err
			}
			if next.WaitlistPosition != nil {
				if err := w.Bookings.DecrementWaitlistPositionsAboveTx(ctx, tx, locked.TripID, *next.WaitlistPosition); err != nil {
					return CancelResult{}, err
				}
			}
			result = CancelResult{Promoted: true, PromotedBookingID: next.ID, PromotedPassenger: next.PassengerID, PromotedToken: signed.Token}
		} else if err != repository.ErrNotFound {
			return CancelResult{}, err
		}
	} else if locked.WaitlistPosition != nil {
		if err := w.Bookings.DecrementWaitlistPositionsAboveTx(ctx, tx, locked.TripID, *locked.WaitlistPosition); err != nil {
			return CancelResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return CancelResult{}, err
	}
	committed = true
	w.publishLifecycle(ctx, bookingID, passengerID, locked.TripID, result)
	return result, nil
}

// publishLifecycle emits best-effort audit events for the cancellation and
// any resulting promotion, the same degrade-without-blocking posture as
// Allocator.publishLifecycle.
func (w *Waitlist) publishLifecycle(ctx context.Context, bookingID, passengerID, tripID uint64, result CancelResult) {
	if w.Lifecycle == nil {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if err := w.Lifecycle.Publish(ctx, broker.BookingLifecycleEvent{
		BookingID: bookingID, PassengerID: passengerID, TripID: tripID,
		Transition: "CANCELLED", OccurredAt: now,
	}); err != nil && w.Log != nil {
		w.Log.Warn("lifecycle publish failed", "bookingId", bookingID, "error", err.Error())
	}
	if result.Promoted {
		if err := w.Lifecycle.Publish(ctx, broker.BookingLifecycleEvent{
			BookingID: result.PromotedBookingID, PassengerID: result.PromotedPassenger, TripID: tripID,
			Transition: "PROMOTED", OccurredAt: now,
		}); err != nil && w.Log != nil {
			w.Log.Warn("lifecycle publish failed", "bookingId", result.PromotedBookingID, "error", err.Error())
		}
	}
}
