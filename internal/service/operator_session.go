package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusbus/reservation-core/internal/coord"
	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/token"
	"github.com/campusbus/reservation-core/internal/utils"
)

// OperatorSession implements OPS: operator login and trip/assignment
// management per spec.md §4.6.
type OperatorSession struct {
	Operators   *repository.OperatorRepo
	Trips       *repository.TripRepo
	Assignments *repository.AssignmentRepo
	Locker      *coord.Locker
	Tokens      *token.Service
}

// LoginResult is the outcome of a successful operator login: the session
// token plus the identity fields spec.md §6 requires alongside it.
type LoginResult struct {
	Token       token.Signed
	OperatorID  uint64
	DisplayName string
}

// Login implements OPS.operatorLogin(employeeId, password) per spec.md §4.6.
// Status is checked before the password per step 2-then-3 of the spec: an
// INACTIVE or SUSPENDED account is rejected as ACCOUNT_SUSPENDED regardless
// of whether the password would have matched.
func (o *OperatorSession) Login(ctx context.Context, employeeID, password string) (LoginResult, error) {
	operator, err := o.Operators.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if err == repository.ErrNotFound {
			return LoginResult{}, ErrBadCredentials
		}
		return LoginResult{}, err
	}
	if operator.Status != model.OperatorActive {
		return LoginResult{}, ErrAccountSuspended
	}
	if !utils.VerifyPassword(operator.PasswordHash, password) {
		return LoginResult{}, ErrBadCredentials
	}
	signed, err := o.Tokens.IssueOperatorSession(operator.ID, operator.EmployeeID)
	if err != nil {
		return LoginResult{}, err
	}
	if err := o.Operators.TouchLastLogin(ctx, operator.ID); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: signed, OperatorID: operator.ID, DisplayName: operator.DisplayName}, nil
}

// TripStatusView is one entry of listOperatorTrips, with the operator's own
// assignment status for the trip folded in.
type TripStatusView struct {
	Trip             model.Trip
	AssignmentStatus model.AssignmentStatus
	HasAssignment    bool
}

// ListTrips implements OPS.listOperatorTrips(operatorId, date) per spec.md
// §4.6: every active trip on the date, annotated with whether and how this
// operator is assigned to it.
func (o *OperatorSession) ListTrips(ctx context.Context, operatorID uint64, date time.Time) ([]TripStatusView, error) {
	trips, err := o.Trips.ListActiveForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]TripStatusView, 0, len(trips))
	for _, t := range trips {
		view := TripStatusView{Trip: t}
		assignment, err := o.Assignments.ForOperatorAndTrip(ctx, operatorID, t.ID)
		if err == nil {
			view.HasAssignment = true
			view.AssignmentStatus = assignment.Status
		} else if err != repository.ErrNotFound {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// StartAssignment implements OPS.startAssignment(operatorId, tripId, busLabel)
// per spec.md §4.6: a trip may carry at most one IN_PROGRESS assignment, so
// the check-then-insert runs under a COORD lock the same as ALLOC.book.
func (o *OperatorSession) StartAssignment(ctx context.Context, operatorID, tripID uint64, busLabel *string) (model.TripAssignment, error) {
	trip, err := o.Trips.GetByID(ctx, tripID)
	if err != nil {
		return model.TripAssignment{}, mapNotFound(err)
	}
	if trip.Status != model.TripActive {
		return model.TripAssignment{}, ErrTripUnavailable
	}

	lockKey := fmt.Sprintf("assign:%d", tripID)
	handle, err := o.Locker.Acquire(ctx, lockKey)
	if err != nil {
		if err == coord.ErrUnavailable {
			return model.TripAssignment{}, ErrConcurrentRequest
		}
		if err == coord.ErrNotConfigured {
			return model.TripAssignment{}, ErrStoreUnavailable
		}
		return model.TripAssignment{}, err
	}
	defer func() { _ = handle.Release(context.Background()) }()

	db := o.Trips.DB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.TripAssignment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := o.Assignments.InProgressForTripTx(ctx, tx, tripID); err == nil {
		return model.TripAssignment{}, ErrTripAlreadyActive
	} else if err != repository.ErrNotFound {
		return model.TripAssignment{}, err
	}

	assignment, err := o.Assignments.InsertInProgressTx(ctx, tx, tripID, operatorID, busLabel)
	if err != nil {
		return model.TripAssignment{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.TripAssignment{}, err
	}
	committed = true
	return assignment, nil
}

// CompleteAssignment closes out the operator's own IN_PROGRESS assignment
// for a trip. Supplements spec.md §4.6 with the run's natural counterpart to
// startAssignment; the spec describes starting a run but never how it ends.
func (o *OperatorSession) CompleteAssignment(ctx context.Context, operatorID, tripID uint64) error {
	assignment, err := o.Assignments.ActiveForOperatorAndTrip(ctx, operatorID, tripID)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return o.Assignments.Complete(ctx, assignment.ID)
}
