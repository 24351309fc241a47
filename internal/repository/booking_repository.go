package repository

import (
	"context"
	"database/sql"

	"github.com/campusbus/reservation-core/internal/model"
)

// BookingRepo persists bookings in the `bookings` table. Every mutating
// method runs inside a caller-supplied transaction so ALLOC/WLM can compose
// a capacity check, an insert, and a waitlist renumbering atomically, the
// same way the teacher's ReservationRepo composes hold-then-reserve steps.
type BookingRepo struct{ db *sql.DB }

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying pool so callers can open their own transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, passenger_id, trip_id, status, boarding_token, created_at, boarded_at, waitlist_position`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	var token sql.NullString
	var boardedAt sql.NullTime
	var waitlistPos sql.NullInt64
	err := row.Scan(&b.ID, &b.PassengerID, &b.TripID, &b.Status, &token, &b.CreatedAt, &boardedAt, &waitlistPos)
	if err != nil {
		return b, err
	}
	if token.Valid {
		b.BoardingToken = &token.String
	}
	if boardedAt.Valid {
		b.BoardedAt = &boardedAt.Time
	}
	if waitlistPos.Valid {
		p := int(waitlistPos.Int64)
		b.WaitlistPosition = &p
	}
	return b, nil
}

// GetByID looks up a booking by primary key outside any transaction.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

// GetByIDTx locks a booking row FOR UPDATE within tx, for cancel/board
// transitions that must not race with a concurrent mutation of the same row.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

// NonTerminalForTripTx reports whether the passenger already holds a live
// (non-cancelled) booking for this trip.
func (r *BookingRepo) NonTerminalForTripTx(ctx context.Context, tx *sql.Tx, passengerID, tripID uint64) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE passenger_id = ? AND trip_id = ? AND status IN ('CONFIRMED','WAITLIST','BOARDED')`,
		passengerID, tripID).Scan(&count)
	return count > 0, err
}

// NonTerminalForDirectionTx reports whether the passenger already holds a
// live booking for any trip in the given direction, regardless of date.
func (r *BookingRepo) NonTerminalForDirectionTx(ctx context.Context, tx *sql.Tx, passengerID uint64, direction model.Direction) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.passenger_id = ? AND t.direction = ? AND b.status IN ('CONFIRMED','WAITLIST','BOARDED')`,
		passengerID, direction).Scan(&count)
	return count > 0, err
}

// ConfirmedAndBoardedCountTx returns count(status IN (CONFIRMED, BOARDED)) for
// a trip, the value compared against the trip's available-seat count to
// decide whether a new booking is seated or waitlisted.
func (r *BookingRepo) ConfirmedAndBoardedCountTx(ctx context.Context, tx *sql.Tx, tripID uint64) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE trip_id = ? AND status IN ('CONFIRMED','BOARDED')`, tripID).Scan(&count)
	return count, err
}

// MaxWaitlistPositionTx returns the highest waitlist position currently
// assigned for a trip, or 0 if the waitlist is empty.
func (r *BookingRepo) MaxWaitlistPositionTx(ctx context.Context, tx *sql.Tx, tripID uint64) (int, error) {
	var max sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(waitlist_position) FROM bookings WHERE trip_id = ? AND status = 'WAITLIST'`, tripID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// InsertConfirmedTx inserts a CONFIRMED booking with its boarding token
// already minted.
func (r *BookingRepo) InsertConfirmedTx(ctx context.Context, tx *sql.Tx, passengerID, tripID uint64, boardingToken string) (model.Booking, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (passenger_id, trip_id, status, boarding_token, created_at) VALUES (?, ?, 'CONFIRMED', ?, NOW())`,
		passengerID, tripID, boardingToken)
	if err != nil {
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}
	return r.GetByIDTx(ctx, tx, uint64(id))
}

// InsertWaitlistTx inserts a WAITLIST booking at the given position.
func (r *BookingRepo) InsertWaitlistTx(ctx context.Context, tx *sql.Tx, passengerID, tripID uint64, position int) (model.Booking, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (passenger_id, trip_id, status, waitlist_position, created_at) VALUES (?, ?, 'WAITLIST', ?, NOW())`,
		passengerID, tripID, position)
	if err != nil {
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}
	return r.GetByIDTx(ctx, tx, uint64(id))
}

// CancelTx transitions a booking to CANCELLED and clears its waitlist
// position.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET status = 'CANCELLED', waitlist_position = NULL WHERE id = ?`, id)
	return err
}

// FirstWaitlistedTx returns the waitlist booking with the lowest position
// (FIFO) for a trip, or ErrNotFound if the waitlist is empty.
func (r *BookingRepo) FirstWaitlistedTx(ctx context.Context, tx *sql.Tx, tripID uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE trip_id = ? AND status = 'WAITLIST'
		 ORDER BY waitlist_position ASC, created_at ASC LIMIT 1 FOR UPDATE`, tripID)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

// PromoteTx transitions a waitlisted booking to CONFIRMED with a freshly
// minted boarding token, clearing its waitlist position.
func (r *BookingRepo) PromoteTx(ctx context.Context, tx *sql.Tx, id uint64, boardingToken string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'CONFIRMED', boarding_token = ?, waitlist_position = NULL WHERE id = ?`,
		boardingToken, id)
	return err
}

// DecrementWaitlistPositionsAboveTx decrements waitlist_position by one for
// every WAITLIST booking of a trip whose position exceeds the given value,
// closing the gap left by a promotion or a waitlisted cancellation so
// positions stay a contiguous 1..k run in creation order.
func (r *BookingRepo) DecrementWaitlistPositionsAboveTx(ctx context.Context, tx *sql.Tx, tripID uint64, above int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET waitlist_position = waitlist_position - 1
		 WHERE trip_id = ? AND status = 'WAITLIST' AND waitlist_position > ?`, tripID, above)
	return err
}

// MarkBoardedTx transitions a booking to BOARDED and sets boardedAt.
func (r *BookingRepo) MarkBoardedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET status = 'BOARDED', boarded_at = NOW() WHERE id = ?`, id)
	return err
}

// BookingHistoryRow is the denormalised row returned by GET /bookings/history
// and GET /profile.
type BookingHistoryRow struct {
	model.Booking
	TripDirection     model.Direction
	TripDepartureTime sql.NullTime
	TripDestination   *string
}

// ListByPassenger returns every booking made by a passenger, most recent
// first, joined with its trip for display.
func (r *BookingRepo) ListByPassenger(ctx context.Context, passengerID uint64) ([]BookingHistoryRow, error) {
	const q = `
		SELECT b.id, b.passenger_id, b.trip_id, b.status, b.boarding_token, b.created_at, b.boarded_at, b.waitlist_position,
		       t.direction, t.departure_time, t.destination
		FROM bookings b JOIN trips t ON t.id = b.trip_id
		WHERE b.passenger_id = ?
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingHistoryRow
	for rows.Next() {
		var h BookingHistoryRow
		var token sql.NullString
		var boardedAt sql.NullTime
		var waitlistPos sql.NullInt64
		var destination sql.NullString
		if err := rows.Scan(&h.ID, &h.PassengerID, &h.TripID, &h.Status, &token, &h.CreatedAt, &boardedAt, &waitlistPos,
			&h.TripDirection, &h.TripDepartureTime, &destination); err != nil {
			return nil, err
		}
		if token.Valid {
			h.BoardingToken = &token.String
		}
		if boardedAt.Valid {
			h.BoardedAt = &boardedAt.Time
		}
		if waitlistPos.Valid {
			p := int(waitlistPos.Int64)
			h.WaitlistPosition = &p
		}
		if destination.Valid {
			h.TripDestination = &destination.String
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// PassengerListRow is a single boarding-roster entry for GET
// /operator/trips/{tripId}/passengers.
type PassengerListRow struct {
	BookingID   uint64
	PassengerID uint64
	DisplayName string
	Status      model.BookingStatus
}

// ListPassengersForTrip returns the boarding roster (CONFIRMED/BOARDED
// bookings) for a trip, ordered by booking creation.
func (r *BookingRepo) ListPassengersForTrip(ctx context.Context, tripID uint64) ([]PassengerListRow, error) {
	const q = `
		SELECT b.id, b.passenger_id, p.display_name, b.status
		FROM bookings b JOIN passengers p ON p.id = b.passenger_id
		WHERE b.trip_id = ? AND b.status IN ('CONFIRMED','BOARDED')
		ORDER BY b.created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PassengerListRow
	for rows.Next() {
		var row PassengerListRow
		if err := rows.Scan(&row.BookingID, &row.PassengerID, &row.DisplayName, &row.Status); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
