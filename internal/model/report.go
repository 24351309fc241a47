package model

import "time"

// ReportReason enumerates misconduct report reasons.
type ReportReason string

const (
	ReasonBehavior        ReportReason = "BEHAVIOR"
	ReasonInvalidBoarding ReportReason = "INVALID_BOARDING_ATTEMPT"
	ReasonOther           ReportReason = "OTHER"
)

// Valid reports whether r is one of the reasons spec.md §4.8 step 1 allows.
func (r ReportReason) Valid() bool {
	switch r {
	case ReasonBehavior, ReasonInvalidBoarding, ReasonOther:
		return true
	default:
		return false
	}
}

// ReportStatus enumerates the review lifecycle of a misconduct report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportReviewed ReportStatus = "REVIEWED"
	ReportResolved ReportStatus = "RESOLVED"
)

// MisconductReport is an operator-filed report against a passenger, stored
// in the `misconduct_reports` table. Immutable after creation except Status.
//
// Fields:
//
//	ID              – misconduct_reports.id
//	PassengerID     – misconduct_reports.passenger_id
//	TripID          – misconduct_reports.trip_id
//	OperatorID      – misconduct_reports.operator_id
//	Reason          – misconduct_reports.reason
//	Comments        – misconduct_reports.comments (nullable, required if reason=OTHER)
//	EvidenceLocator – misconduct_reports.evidence_locator (nullable blob-store URL)
//	ReportedAt      – misconduct_reports.reported_at
//	Status          – misconduct_reports.status
type MisconductReport struct {
	ID              uint64
	PassengerID     uint64
	TripID          uint64
	OperatorID      uint64
	Reason          ReportReason
	Comments        *string
	EvidenceLocator *string
	ReportedAt      time.Time
	Status          ReportStatus
}
