package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/campusbus/reservation-core/internal/blob"
	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
)

var reportCols = []string{"id", "passenger_id", "trip_id", "operator_id", "reason", "comments", "evidence_locator", "reported_at", "status"}

func newEvidenceUnderTest(t *testing.T) (*Evidence, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	dir := t.TempDir()
	ev := &Evidence{
		Reports: repository.NewReportRepo(db),
		Blobs:   blob.NewStore(dir),
	}
	return ev, mock, func() { db.Close() }
}

func TestEvidenceSubmitWithoutPhoto(t *testing.T) {
	ev, mock, cleanup := newEvidenceUnderTest(t)
	defer cleanup()

	now := sqlDriverNow()
	mock.ExpectExec("INSERT INTO misconduct_reports").
		WithArgs(uint64(1), uint64(2), uint64(3), model.ReasonBehavior, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery("SELECT id, passenger_id, trip_id, operator_id, reason, comments, evidence_locator, reported_at, status").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(10, 1, 2, 3, "BEHAVIOR", nil, nil, now, "PENDING"))

	rep, err := ev.Submit(context.Background(), SubmitInput{
		PassengerID: 1, TripID: 2, OperatorID: 3, Reason: model.ReasonBehavior,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rep.EvidenceLocator != nil {
		t.Fatalf("EvidenceLocator = %v, want nil", rep.EvidenceLocator)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEvidenceSubmitOtherRequiresComment(t *testing.T) {
	ev, _, cleanup := newEvidenceUnderTest(t)
	defer cleanup()

	_, err := ev.Submit(context.Background(), SubmitInput{
		PassengerID: 1, TripID: 2, OperatorID: 3, Reason: model.ReasonOther,
	})
	if !errors.Is(err, ErrCommentsRequired) {
		t.Fatalf("Submit() error = %v, want ErrCommentsRequired", err)
	}
}

func TestEvidenceSubmitRejectsUnknownReason(t *testing.T) {
	ev, _, cleanup := newEvidenceUnderTest(t)
	defer cleanup()

	_, err := ev.Submit(context.Background(), SubmitInput{
		PassengerID: 1, TripID: 2, OperatorID: 3, Reason: model.ReportReason("SOMETHING_ELSE"),
	})
	if !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("Submit() error = %v, want ErrMalformedRequest", err)
	}
}

func TestEvidenceSubmitWithPhotoUploadsToBlobStore(t *testing.T) {
	ev, mock, cleanup := newEvidenceUnderTest(t)
	defer cleanup()

	now := sqlDriverNow()
	mock.ExpectExec("INSERT INTO misconduct_reports").
		WithArgs(uint64(1), uint64(2), uint64(3), model.ReasonInvalidBoarding, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT id, passenger_id, trip_id, operator_id, reason, comments, evidence_locator, reported_at, status").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(reportCols).
			AddRow(11, 1, 2, 3, "INVALID_BOARDING_ATTEMPT", nil, "misconduct/1/abc.jpg", now, "PENDING"))

	rep, err := ev.Submit(context.Background(), SubmitInput{
		PassengerID: 1, TripID: 2, OperatorID: 3, Reason: model.ReasonInvalidBoarding,
		Photo: []byte{0xFF, 0xD8, 0xFF},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rep.EvidenceLocator == nil {
		t.Fatal("EvidenceLocator = nil, want a locator string")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
