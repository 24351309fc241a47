package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/campusbus/reservation-core/internal/model"
)

func newTripRepoUnderTest(t *testing.T) (*TripRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewTripRepo(db), mock, func() { db.Close() }
}

func TestTripRepoListAvailableComputesAvailableSeats(t *testing.T) {
	repo, mock, cleanup := newTripRepoUnderTest(t)
	defer cleanup()

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := date.Add(6 * time.Hour)
	cols := []string{"id", "departure_time", "destination", "bus_label", "capacity", "faculty_reserved", "day_class", "booked", "waitlisted"}
	mock.ExpectQuery("FROM trips t").
		WithArgs(model.DirectionAToB, date, now).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, date.Add(8*time.Hour), "Campus", "Bus-1", 35, 5, "WEEKDAY", 30, 3).
			AddRow(2, date.Add(9*time.Hour), "Campus", "Bus-2", 35, 5, "WEEKDAY", 12, 0))

	rows, err := repo.ListAvailable(context.Background(), model.DirectionAToB, date, now)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].AvailableSeats != 0 {
		t.Fatalf("rows[0].AvailableSeats = %d, want 0 (full trip)", rows[0].AvailableSeats)
	}
	if rows[1].AvailableSeats != 18 {
		t.Fatalf("rows[1].AvailableSeats = %d, want 18", rows[1].AvailableSeats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepoGetByIDNotFound(t *testing.T) {
	repo, mock, cleanup := newTripRepoUnderTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = \\? LIMIT 1").
		WithArgs(uint64(99)).
		WillReturnError(sqlNoRows())

	_, err := repo.GetByID(context.Background(), 99)
	if err != ErrNotFound {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
