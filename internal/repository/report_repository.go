package repository

import (
	"context"
	"database/sql"

	"github.com/campusbus/reservation-core/internal/model"
)

// ReportRepo persists misconduct reports in the `misconduct_reports` table.
type ReportRepo struct{ db *sql.DB }

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// Create inserts a new PENDING misconduct report. evidenceLocator may be nil
// when no photo was supplied or the blob upload failed (evidence is
// optional per spec.md §4.8).
func (r *ReportRepo) Create(ctx context.Context, rep model.MisconductReport) (model.MisconductReport, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO misconduct_reports (passenger_id, trip_id, operator_id, reason, comments, evidence_locator, reported_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, NOW(), 'PENDING')`,
		rep.PassengerID, rep.TripID, rep.OperatorID, rep.Reason, rep.Comments, rep.EvidenceLocator)
	if err != nil {
		return model.MisconductReport{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MisconductReport{}, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, passenger_id, trip_id, operator_id, reason, comments, evidence_locator, reported_at, status
		 FROM misconduct_reports WHERE id = ?`, id)
	return scanReport(row)
}

func scanReport(row interface{ Scan(...any) error }) (model.MisconductReport, error) {
	var rep model.MisconductReport
	var comments, locator sql.NullString
	err := row.Scan(&rep.ID, &rep.PassengerID, &rep.TripID, &rep.OperatorID, &rep.Reason, &comments, &locator, &rep.ReportedAt, &rep.Status)
	if err != nil {
		return rep, err
	}
	if comments.Valid {
		rep.Comments = &comments.String
	}
	if locator.Valid {
		rep.EvidenceLocator = &locator.String
	}
	return rep, nil
}
