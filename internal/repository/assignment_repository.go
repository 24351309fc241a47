package repository

import (
	"context"
	"database/sql"

	"github.com/campusbus/reservation-core/internal/model"
)

// AssignmentRepo persists operator-trip assignments in the
// `trip_assignments` table.
type AssignmentRepo struct{ db *sql.DB }

// NewAssignmentRepo returns a new AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// DB exposes the underlying pool so callers can open their own transactions.
func (r *AssignmentRepo) DB() *sql.DB { return r.db }

const assignmentCols = `id, trip_id, operator_id, bus_label, assigned_at, started_at, completed_at, status`

func scanAssignment(row interface{ Scan(...any) error }) (model.TripAssignment, error) {
	var a model.TripAssignment
	var busLabel sql.NullString
	var startedAt, completedAt sql.NullTime
	err := row.Scan(&a.ID, &a.TripID, &a.OperatorID, &busLabel, &a.AssignedAt, &startedAt, &completedAt, &a.Status)
	if err != nil {
		return a, err
	}
	if busLabel.Valid {
		a.BusLabel = &busLabel.String
	}
	if startedAt.Valid {
		a.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return a, nil
}

// InProgressForTripTx locks and returns the IN_PROGRESS assignment for a
// trip, if any, so a caller can refuse a second one before inserting.
func (r *AssignmentRepo) InProgressForTripTx(ctx context.Context, tx *sql.Tx, tripID uint64) (model.TripAssignment, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+assignmentCols+` FROM trip_assignments WHERE trip_id = ? AND status = 'IN_PROGRESS' LIMIT 1 FOR UPDATE`, tripID)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// InsertInProgressTx inserts a new assignment directly in the IN_PROGRESS
// state with startedAt = now, per OPS.startAssignment.
func (r *AssignmentRepo) InsertInProgressTx(ctx context.Context, tx *sql.Tx, tripID, operatorID uint64, busLabel *string) (model.TripAssignment, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO trip_assignments (trip_id, operator_id, bus_label, assigned_at, started_at, status)
		 VALUES (?, ?, ?, NOW(), NOW(), 'IN_PROGRESS')`,
		tripID, operatorID, busLabel)
	if err != nil {
		return model.TripAssignment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TripAssignment{}, err
	}
	row := tx.QueryRowContext(ctx, `SELECT `+assignmentCols+` FROM trip_assignments WHERE id = ?`, id)
	return scanAssignment(row)
}

// ActiveForOperatorAndTrip returns the operator's own IN_PROGRESS assignment
// for a trip, used by the assignment-completion endpoint.
func (r *AssignmentRepo) ActiveForOperatorAndTrip(ctx context.Context, operatorID, tripID uint64) (model.TripAssignment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assignmentCols+` FROM trip_assignments WHERE trip_id = ? AND operator_id = ? AND status = 'IN_PROGRESS' LIMIT 1`,
		tripID, operatorID)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// Complete transitions an assignment to COMPLETED with completedAt = now.
func (r *AssignmentRepo) Complete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE trip_assignments SET status = 'COMPLETED', completed_at = NOW() WHERE id = ?`, id)
	return err
}

// ForOperatorAndTrip looks up any assignment (of any status) an operator
// holds for a trip, used to derive listOperatorTrips' per-trip status.
func (r *AssignmentRepo) ForOperatorAndTrip(ctx context.Context, operatorID, tripID uint64) (model.TripAssignment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assignmentCols+` FROM trip_assignments WHERE trip_id = ? AND operator_id = ? ORDER BY assigned_at DESC LIMIT 1`,
		tripID, operatorID)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}
