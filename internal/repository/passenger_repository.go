package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campusbus/reservation-core/internal/model"
)

// PassengerRepo persists passenger records in the `passengers` table.
type PassengerRepo struct{ db *sql.DB }

// NewPassengerRepo returns a new PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

// DB exposes the underlying pool so callers can open their own transactions.
func (r *PassengerRepo) DB() *sql.DB { return r.db }

func scanPassenger(row interface{ Scan(...any) error }) (model.Passenger, error) {
	var p model.Passenger
	var room, phone sql.NullString
	var blockedUntil sql.NullTime
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &room, &phone,
		&p.ProfileDone, &p.PenaltyCount, &blockedUntil, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if room.Valid {
		p.Room = &room.String
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if blockedUntil.Valid {
		p.BlockedUntil = &blockedUntil.Time
	}
	return p, nil
}

const passengerCols = `id, email, display_name, room, phone, profile_complete, penalty_count, blocked_until, created_at`

// GetByEmail looks up a passenger by their verified email claim.
func (r *PassengerRepo) GetByEmail(ctx context.Context, email string) (model.Passenger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+passengerCols+` FROM passengers WHERE email = ? LIMIT 1`, email)
	p, err := scanPassenger(row)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// GetByID looks up a passenger by primary key.
func (r *PassengerRepo) GetByID(ctx context.Context, id uint64) (model.Passenger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+passengerCols+` FROM passengers WHERE id = ? LIMIT 1`, id)
	p, err := scanPassenger(row)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// Create inserts a new passenger on first federated login.
func (r *PassengerRepo) Create(ctx context.Context, email, displayName string) (model.Passenger, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO passengers (email, display_name, profile_complete, penalty_count, created_at) VALUES (?, ?, FALSE, 0, ?)`,
		email, displayName, time.Now().UTC())
	if err != nil {
		return model.Passenger{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Passenger{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// CompleteProfile sets room/phone and marks the profile complete.
func (r *PassengerRepo) CompleteProfile(ctx context.Context, id uint64, room, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE passengers SET room = ?, phone = ?, profile_complete = TRUE WHERE id = ?`,
		room, phone, id)
	return err
}
