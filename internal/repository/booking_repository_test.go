package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/campusbus/reservation-core/internal/model"
)

func newBookingRepoUnderTest(t *testing.T) (*BookingRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewBookingRepo(db), mock, func() { db.Close() }
}

var bookingRepoCols = []string{"id", "passenger_id", "trip_id", "status", "boarding_token", "created_at", "boarded_at", "waitlist_position"}

func TestBookingRepoInsertConfirmedTx(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings \\(passenger_id, trip_id, status, boarding_token, created_at\\)").
		WithArgs(uint64(1), uint64(2), "").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(bookingRepoCols).
			AddRow(5, 1, 2, "CONFIRMED", nil, sqlFixedNow(), nil, nil))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	booking, err := repo.InsertConfirmedTx(context.Background(), tx, 1, 2, "")
	if err != nil {
		t.Fatalf("InsertConfirmedTx: %v", err)
	}
	if booking.Status != model.BookingConfirmed {
		t.Fatalf("Status = %v, want CONFIRMED", booking.Status)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoInsertWaitlistTx(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings \\(passenger_id, trip_id, status, waitlist_position, created_at\\)").
		WithArgs(uint64(1), uint64(2), 1).
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\? FOR UPDATE").
		WithArgs(uint64(6)).
		WillReturnRows(sqlmock.NewRows(bookingRepoCols).
			AddRow(6, 1, 2, "WAITLIST", nil, sqlFixedNow(), nil, 1))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	booking, err := repo.InsertWaitlistTx(context.Background(), tx, 1, 2, 1)
	if err != nil {
		t.Fatalf("InsertWaitlistTx: %v", err)
	}
	if booking.Status != model.BookingWaitlist || booking.WaitlistPosition == nil || *booking.WaitlistPosition != 1 {
		t.Fatalf("booking = %+v, want WAITLIST at position 1", booking)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoFirstWaitlistedTxOrdersFIFO(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE trip_id = \\? AND status = 'WAITLIST' ORDER BY waitlist_position ASC, created_at ASC LIMIT 1").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(bookingRepoCols).
			AddRow(6, 1, 2, "WAITLIST", nil, sqlFixedNow(), nil, 1))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	booking, err := repo.FirstWaitlistedTx(context.Background(), tx, 2)
	if err != nil {
		t.Fatalf("FirstWaitlistedTx: %v", err)
	}
	if booking.ID != 6 {
		t.Fatalf("ID = %d, want 6 (lowest waitlist position)", booking.ID)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoFirstWaitlistedTxEmpty(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE trip_id = \\? AND status = 'WAITLIST'").
		WithArgs(uint64(2)).
		WillReturnError(sqlNoRows())

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err = repo.FirstWaitlistedTx(context.Background(), tx, 2)
	if err != ErrNotFound {
		t.Fatalf("FirstWaitlistedTx() error = %v, want ErrNotFound", err)
	}
	_ = tx.Commit()
}

func TestBookingRepoPromoteTxAndDecrementPositions(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status = 'CONFIRMED', boarding_token = \\?, waitlist_position = NULL WHERE id = \\?").
		WithArgs("signed-token", uint64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET waitlist_position = waitlist_position - 1").
		WithArgs(uint64(2), 1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := repo.PromoteTx(context.Background(), tx, 6, "signed-token"); err != nil {
		t.Fatalf("PromoteTx: %v", err)
	}
	if err := repo.DecrementWaitlistPositionsAboveTx(context.Background(), tx, 2, 1); err != nil {
		t.Fatalf("DecrementWaitlistPositionsAboveTx: %v", err)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoCancelTx(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status = 'CANCELLED', waitlist_position = NULL WHERE id = \\?").
		WithArgs(uint64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := repo.CancelTx(context.Background(), tx, 6); err != nil {
		t.Fatalf("CancelTx: %v", err)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoConfirmedAndBoardedCountTx(t *testing.T) {
	repo, mock, cleanup := newBookingRepoUnderTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE trip_id = \\? AND status IN \\('CONFIRMED','BOARDED'\\)").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(35))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	count, err := repo.ConfirmedAndBoardedCountTx(context.Background(), tx, 2)
	if err != nil {
		t.Fatalf("ConfirmedAndBoardedCountTx: %v", err)
	}
	if count != 35 {
		t.Fatalf("count = %d, want 35", count)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
