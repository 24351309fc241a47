package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/campusbus/reservation-core/internal/service"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{service.ErrBlocked, http.StatusForbidden, "BLOCKED"},
		{service.ErrAccountSuspended, http.StatusForbidden, "ACCOUNT_SUSPENDED"},
		{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{service.ErrDomainNotAllowed, http.StatusBadRequest, "DOMAIN_NOT_ALLOWED"},
		{service.ErrInvalidCoordinate, http.StatusBadRequest, "INVALID_COORDINATE"},
		{service.ErrWrongTrip, http.StatusBadRequest, "WRONG_TRIP"},
		{service.ErrInvalidToken, http.StatusBadRequest, "INVALID_TOKEN"},
		{service.ErrCommentsRequired, http.StatusBadRequest, "COMMENTS_REQUIRED"},
		{service.ErrBadCredentials, http.StatusUnauthorized, "BAD_CREDENTIALS"},
		{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{service.ErrConcurrentRequest, http.StatusConflict, "CONCURRENT_REQUEST"},
		{service.ErrConcurrentScan, http.StatusConflict, "CONCURRENT_SCAN"},
		{service.ErrDuplicateForTrip, http.StatusConflict, "DUPLICATE_FOR_TRIP"},
		{service.ErrDuplicateForDirection, http.StatusConflict, "DUPLICATE_FOR_DIRECTION"},
		{service.ErrTripAlreadyActive, http.StatusConflict, "TRIP_ALREADY_ACTIVE"},
		{service.ErrAlreadyCancelled, http.StatusConflict, "ALREADY_CANCELLED"},
		{service.ErrAlreadyBoarded, http.StatusConflict, "ALREADY_BOARDED"},
		{service.ErrNotEligible, http.StatusConflict, "NOT_ELIGIBLE"},
		{service.ErrTripUnavailable, http.StatusGone, "TRIP_UNAVAILABLE"},
		{service.ErrTelemetryUnavailable, http.StatusServiceUnavailable, "TELEMETRY_UNAVAILABLE"},
		{service.ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{errors.New("something unmapped"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.wantKind, func(t *testing.T) {
			status, kind := classify(tc.err)
			if status != tc.wantStatus || kind != tc.wantKind {
				t.Fatalf("classify(%v) = (%d, %q), want (%d, %q)", tc.err, status, kind, tc.wantStatus, tc.wantKind)
			}
		})
	}
}

func TestClassifyWrapped(t *testing.T) {
	wrapped := errors.Join(service.ErrNotFound)
	status, kind := classify(wrapped)
	if status != http.StatusNotFound || kind != "NOT_FOUND" {
		t.Fatalf("classify(wrapped) = (%d, %q), want (404, NOT_FOUND)", status, kind)
	}
}
