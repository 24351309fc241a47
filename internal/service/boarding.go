package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusbus/reservation-core/internal/broker"
	"github.com/campusbus/reservation-core/internal/coord"
	"github.com/campusbus/reservation-core/internal/logger"
	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/token"
)

// BoardingValidator implements BV: scanning a boarding token at the door of
// the bus, per spec.md §4.5.
type BoardingValidator struct {
	Bookings  *repository.BookingRepo
	Locker    *coord.Locker
	Tokens    *token.Service
	Lifecycle *broker.LifecyclePublisher
	Log       logger.Logger
}

// ValidateResult is returned on a successful (or idempotently successful)
// scan.
type ValidateResult struct {
	BookingID      uint64
	PassengerID    uint64
	AlreadyBoarded bool
}

// Validate implements BV.validateBoarding(tripId, presentedToken) per
// spec.md §4.5. A scan of an already-BOARDED booking succeeds idempotently
// rather than erroring, so a double-tap at the door never blocks a rider.
func (b *BoardingValidator) Validate(ctx context.Context, tripID uint64, presentedToken string) (ValidateResult, error) {
	claims, err := b.Tokens.Verify(presentedToken, token.KindBoarding)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return ValidateResult{}, ErrInvalidToken
		}
		return ValidateResult{}, ErrInvalidToken
	}

	claimedTripID, _ := claims.Extra["tripId"].(float64)
	if uint64(claimedTripID) != tripID {
		return ValidateResult{}, ErrWrongTrip
	}

	var bookingID uint64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &bookingID); err != nil {
		return ValidateResult{}, ErrInvalidToken
	}

	lockKey := fmt.Sprintf("scan:%d", bookingID)
	handle, err := b.Locker.Acquire(ctx, lockKey)
	if err != nil {
		if err == coord.ErrUnavailable {
			return ValidateResult{}, ErrConcurrentScan
		}
		if err == coord.ErrNotConfigured {
			return ValidateResult{}, ErrStoreUnavailable
		}
		return ValidateResult{}, err
	}
	defer func() { _ = handle.Release(context.Background()) }()

	db := b.Bookings.DB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ValidateResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := b.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		return ValidateResult{}, mapNotFound(err)
	}
	if booking.TripID != tripID {
		return ValidateResult{}, ErrWrongTrip
	}

	if booking.Status == model.BookingBoarded {
		if err := tx.Commit(); err != nil {
			return ValidateResult{}, err
		}
		committed = true
		return ValidateResult{BookingID: booking.ID, PassengerID: booking.PassengerID, AlreadyBoarded: true}, nil
	}
	if booking.Status != model.BookingConfirmed {
		return ValidateResult{}, ErrNotEligible
	}

	if err := b.Bookings.MarkBoardedTx(ctx, tx, booking.ID); err != nil {
		return ValidateResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ValidateResult{}, err
	}
	committed = true
	if b.Lifecycle != nil {
		err := b.Lifecycle.Publish(ctx, broker.BookingLifecycleEvent{
			BookingID: booking.ID, PassengerID: booking.PassengerID, TripID: tripID,
			Transition: "BOARDED", OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil && b.Log != nil {
			b.Log.Warn("lifecycle publish failed", "bookingId", booking.ID, "error", err.Error())
		}
	}
	return ValidateResult{BookingID: booking.ID, PassengerID: booking.PassengerID}, nil
}
