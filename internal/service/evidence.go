package service

import (
	"context"

	"github.com/campusbus/reservation-core/internal/blob"
	"github.com/campusbus/reservation-core/internal/logger"
	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
)

// Evidence implements EVID: misconduct reports and their optional photo
// evidence, per spec.md §4.8.
type Evidence struct {
	Reports *repository.ReportRepo
	Blobs   *blob.Store
	Log     logger.Logger
}

// SubmitInput is the raw material for a misconduct report, decoded from the
// HTTP boundary by BND.
type SubmitInput struct {
	PassengerID uint64
	TripID      uint64
	OperatorID  uint64
	Reason      model.ReportReason
	Comments    *string
	Photo       []byte
}

// Submit implements EVID.submitReport per spec.md §4.8: OTHER requires a
// non-empty comment, and a supplied photo is uploaded best-effort — a
// storage failure is logged, not surfaced, since the report itself must
// still succeed.
func (e *Evidence) Submit(ctx context.Context, in SubmitInput) (model.MisconductReport, error) {
	if !in.Reason.Valid() {
		return model.MisconductReport{}, ErrMalformedRequest
	}
	if in.Reason == model.ReasonOther && (in.Comments == nil || *in.Comments == "") {
		return model.MisconductReport{}, ErrCommentsRequired
	}

	var locator *string
	if len(in.Photo) > 0 {
		loc, err := e.Blobs.PutMisconductPhoto(ctx, in.PassengerID, in.Photo)
		if err != nil {
			if e.Log != nil {
				e.Log.Warn("evidence photo upload failed", "passengerId", in.PassengerID, "error", err.Error())
			}
		} else {
			locator = &loc
		}
	}

	return e.Reports.Create(ctx, model.MisconductReport{
		PassengerID:     in.PassengerID,
		TripID:          in.TripID,
		OperatorID:      in.OperatorID,
		Reason:          in.Reason,
		Comments:        in.Comments,
		EvidenceLocator: locator,
	})
}
