package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campusbus/reservation-core/internal/model"
)

// TripRepo persists scheduled trips in the `trips` table.
type TripRepo struct{ db *sql.DB }

// NewTripRepo returns a new TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// DB exposes the underlying pool so callers can open their own transactions.
func (r *TripRepo) DB() *sql.DB { return r.db }

const tripCols = `id, direction, destination, bus_label, trip_date, departure_time, capacity, faculty_reserved, status, day_class`

func scanTrip(row interface{ Scan(...any) error }) (model.Trip, error) {
	var t model.Trip
	var destination, busLabel sql.NullString
	err := row.Scan(&t.ID, &t.Direction, &destination, &busLabel, &t.Date, &t.DepartureTime,
		&t.Capacity, &t.FacultyReserved, &t.Status, &t.DayClass)
	if err != nil {
		return t, err
	}
	if destination.Valid {
		t.Destination = &destination.String
	}
	if busLabel.Valid {
		t.BusLabel = &busLabel.String
	}
	return t, nil
}

// GetByID looks up a trip by primary key outside of any transaction.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (model.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tripCols+` FROM trips WHERE id = ? LIMIT 1`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// GetByIDTx is the transaction-scoped variant of GetByID, used with
// FOR UPDATE locking so capacity re-checks inside ALLOC/WLM see a
// consistent row.
func (r *TripRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Trip, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+tripCols+` FROM trips WHERE id = ? FOR UPDATE`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// Create inserts a new trip. Capacity/faculty-reserved default to the
// spec.md §3 values when zero.
func (r *TripRepo) Create(ctx context.Context, t model.Trip) (model.Trip, error) {
	if t.Capacity == 0 {
		t.Capacity = model.DefaultCapacity
	}
	if t.FacultyReserved == 0 {
		t.FacultyReserved = model.DefaultFacultyReserve
	}
	if t.Status == "" {
		t.Status = model.TripActive
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO trips (direction, destination, bus_label, trip_date, departure_time, capacity, faculty_reserved, status, day_class)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Direction, t.Destination, t.BusLabel, t.Date, t.DepartureTime, t.Capacity, t.FacultyReserved, t.Status, t.DayClass)
	if err != nil {
		return model.Trip{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Trip{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// TripAvailability is the derived listing row for GET /trips/available.
type TripAvailability struct {
	TripID          uint64
	DepartureTime   time.Time
	Destination     *string
	BusLabel        *string
	Capacity        int
	BookedCount     int
	WaitlistCount   int
	AvailableSeats  int
	DayClass        model.DayClass
}

// ListAvailable returns active, future trips for a direction and date with
// live booked/waitlist counts derived from the bookings table.
func (r *TripRepo) ListAvailable(ctx context.Context, direction model.Direction, date time.Time, now time.Time) ([]TripAvailability, error) {
	const q = `
		SELECT t.id, t.departure_time, t.destination, t.bus_label, t.capacity, t.faculty_reserved, t.day_class,
		       COALESCE(SUM(CASE WHEN b.status IN ('CONFIRMED','BOARDED') THEN 1 ELSE 0 END), 0) AS booked,
		       COALESCE(SUM(CASE WHEN b.status = 'WAITLIST' THEN 1 ELSE 0 END), 0) AS waitlisted
		FROM trips t
		LEFT JOIN bookings b ON b.trip_id = t.id
		WHERE t.direction = ? AND DATE(t.trip_date) = DATE(?) AND t.status = 'ACTIVE' AND t.departure_time >= ?
		GROUP BY t.id
		ORDER BY t.departure_time ASC`
	rows, err := r.db.QueryContext(ctx, q, direction, date, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TripAvailability
	for rows.Next() {
		var a TripAvailability
		var destination, busLabel sql.NullString
		var capacity, facultyReserved int
		if err := rows.Scan(&a.TripID, &a.DepartureTime, &destination, &busLabel, &capacity, &facultyReserved,
			&a.DayClass, &a.BookedCount, &a.WaitlistCount); err != nil {
			return nil, err
		}
		if destination.Valid {
			a.Destination = &destination.String
		}
		if busLabel.Valid {
			a.BusLabel = &busLabel.String
		}
		a.Capacity = capacity
		a.AvailableSeats = (capacity - facultyReserved) - a.BookedCount
		if a.AvailableSeats < 0 {
			a.AvailableSeats = 0
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListActiveForDate returns all active trips scheduled on a given date,
// regardless of direction, for the operator trip list.
func (r *TripRepo) ListActiveForDate(ctx context.Context, date time.Time) ([]model.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tripCols+` FROM trips WHERE DATE(trip_date) = DATE(?) AND status = 'ACTIVE' ORDER BY departure_time ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
