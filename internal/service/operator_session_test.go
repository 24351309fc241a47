package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/token"
	"github.com/campusbus/reservation-core/internal/utils"
)

var operatorCols = []string{"id", "employee_id", "display_name", "password_hash", "phone", "status", "last_login_at", "created_at"}
var assignmentCols = []string{"id", "trip_id", "operator_id", "bus_label", "assigned_at", "started_at", "completed_at", "status"}
var tripCols = []string{"id", "direction", "destination", "bus_label", "trip_date", "departure_time", "capacity", "faculty_reserved", "status", "day_class"}

func newOperatorSessionUnderTest(t *testing.T) (*OperatorSession, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	ops := &OperatorSession{
		Operators:   repository.NewOperatorRepo(db),
		Trips:       repository.NewTripRepo(db),
		Assignments: repository.NewAssignmentRepo(db),
		Tokens:      token.NewService(token.Secrets{Passenger: "s", Operator: "s", Boarding: "s"}),
	}
	return ops, mock, func() { db.Close() }
}

func TestOperatorSessionLoginSuccess(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	hash, err := utils.HashPassword("correct-horse", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := sqlDriverNow()
	mock.ExpectQuery("SELECT (.+) FROM operators WHERE employee_id = ?").
		WithArgs("EMP-1").
		WillReturnRows(sqlmock.NewRows(operatorCols).
			AddRow(1, "EMP-1", "Driver One", hash, nil, "ACTIVE", nil, now))
	mock.ExpectExec("UPDATE operators SET last_login_at").
		WithArgs(sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := ops.Login(context.Background(), "EMP-1", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token.Token == "" {
		t.Fatal("expected a signed operator token")
	}
	if result.OperatorID != 1 || result.DisplayName != "Driver One" {
		t.Fatalf("Login() result = %+v, want operatorId=1 displayName=Driver One", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOperatorSessionLoginBadPassword(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	hash, _ := utils.HashPassword("correct-horse", 4)
	now := sqlDriverNow()
	mock.ExpectQuery("SELECT (.+) FROM operators WHERE employee_id = ?").
		WithArgs("EMP-1").
		WillReturnRows(sqlmock.NewRows(operatorCols).
			AddRow(1, "EMP-1", "Driver One", hash, nil, "ACTIVE", nil, now))

	_, err := ops.Login(context.Background(), "EMP-1", "wrong-password")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("Login() error = %v, want ErrBadCredentials", err)
	}
}

func TestOperatorSessionLoginUnknownEmployee(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM operators WHERE employee_id = ?").
		WithArgs("EMP-404").
		WillReturnError(sqlNoRows())

	_, err := ops.Login(context.Background(), "EMP-404", "whatever")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("Login() error = %v, want ErrBadCredentials", err)
	}
}

func TestOperatorSessionLoginSuspended(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	hash, _ := utils.HashPassword("pw", 4)
	now := sqlDriverNow()
	mock.ExpectQuery("SELECT (.+) FROM operators WHERE employee_id = ?").
		WithArgs("EMP-2").
		WillReturnRows(sqlmock.NewRows(operatorCols).
			AddRow(2, "EMP-2", "Driver Two", hash, nil, "SUSPENDED", nil, now))

	_, err := ops.Login(context.Background(), "EMP-2", "pw")
	if !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("Login() error = %v, want ErrAccountSuspended", err)
	}
}

func TestOperatorSessionLoginInactive(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	hash, _ := utils.HashPassword("pw", 4)
	now := sqlDriverNow()
	mock.ExpectQuery("SELECT (.+) FROM operators WHERE employee_id = ?").
		WithArgs("EMP-3").
		WillReturnRows(sqlmock.NewRows(operatorCols).
			AddRow(3, "EMP-3", "Driver Three", hash, nil, "INACTIVE", nil, now))

	_, err := ops.Login(context.Background(), "EMP-3", "pw")
	if !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("Login() error = %v, want ErrAccountSuspended", err)
	}
}

func TestOperatorSessionListTrips(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE DATE\\(trip_date\\) = DATE\\(\\?\\) AND status = 'ACTIVE'").
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows(tripCols).
			AddRow(1, "A_TO_B", "Campus", "Bus-1", date, date.Add(8*time.Hour), 35, 5, "ACTIVE", "WEEKDAY").
			AddRow(2, "B_TO_A", "Town", "Bus-2", date, date.Add(18*time.Hour), 35, 5, "ACTIVE", "WEEKDAY"))
	mock.ExpectQuery("SELECT (.+) FROM trip_assignments WHERE trip_id = \\? AND operator_id = \\? ORDER BY assigned_at DESC").
		WithArgs(uint64(1), uint64(9)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(55, 1, 9, "Bus-1", date, date, nil, "IN_PROGRESS"))
	mock.ExpectQuery("SELECT (.+) FROM trip_assignments WHERE trip_id = \\? AND operator_id = \\? ORDER BY assigned_at DESC").
		WithArgs(uint64(2), uint64(9)).
		WillReturnError(sqlNoRows())

	views, err := ops.ListTrips(context.Background(), 9, date)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	if !views[0].HasAssignment || views[0].AssignmentStatus != "IN_PROGRESS" {
		t.Fatalf("views[0] = %+v, want an IN_PROGRESS assignment", views[0])
	}
	if views[1].HasAssignment {
		t.Fatalf("views[1] = %+v, want no assignment", views[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOperatorSessionCompleteAssignment(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	now := sqlDriverNow()
	mock.ExpectQuery("SELECT (.+) FROM trip_assignments WHERE trip_id = \\? AND operator_id = \\? AND status = 'IN_PROGRESS'").
		WithArgs(uint64(4), uint64(9)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(77, 4, 9, "Bus-3", now, now, nil, "IN_PROGRESS"))
	mock.ExpectExec("UPDATE trip_assignments SET status = 'COMPLETED'").
		WithArgs(uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := ops.CompleteAssignment(context.Background(), 9, 4); err != nil {
		t.Fatalf("CompleteAssignment: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOperatorSessionCompleteAssignmentNotFound(t *testing.T) {
	ops, mock, cleanup := newOperatorSessionUnderTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM trip_assignments WHERE trip_id = \\? AND operator_id = \\? AND status = 'IN_PROGRESS'").
		WithArgs(uint64(4), uint64(9)).
		WillReturnError(sqlNoRows())

	err := ops.CompleteAssignment(context.Background(), 9, 4)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteAssignment() error = %v, want ErrNotFound", err)
	}
}
