package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/service"
)

// writeServiceError maps a service-layer sentinel to the HTTP status and
// failure kind spec.md §7 mandates, and writes the uniform
// {"message": "<kind>"} body. Falls back to 500 INTERNAL for anything it
// does not recognise, the same last-resort the teacher's handlers take for
// unclassified database errors.
func writeServiceError(c echo.Context, err error) error {
	status, kind := classify(err)
	return c.JSON(status, echo.Map{"message": kind})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrBlocked):
		return http.StatusForbidden, "BLOCKED"
	case errors.Is(err, service.ErrAccountSuspended):
		return http.StatusForbidden, "ACCOUNT_SUSPENDED"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, service.ErrDomainNotAllowed):
		return http.StatusBadRequest, "DOMAIN_NOT_ALLOWED"
	case errors.Is(err, service.ErrInvalidCoordinate):
		return http.StatusBadRequest, "INVALID_COORDINATE"
	case errors.Is(err, service.ErrWrongTrip):
		return http.StatusBadRequest, "WRONG_TRIP"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest, "INVALID_TOKEN"
	case errors.Is(err, service.ErrCommentsRequired):
		return http.StatusBadRequest, "COMMENTS_REQUIRED"
	case errors.Is(err, service.ErrMalformedRequest):
		return http.StatusBadRequest, "MALFORMED_REQUEST"
	case errors.Is(err, service.ErrBadCredentials):
		return http.StatusUnauthorized, "BAD_CREDENTIALS"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrConcurrentRequest):
		return http.StatusConflict, "CONCURRENT_REQUEST"
	case errors.Is(err, service.ErrConcurrentScan):
		return http.StatusConflict, "CONCURRENT_SCAN"
	case errors.Is(err, service.ErrDuplicateForTrip):
		return http.StatusConflict, "DUPLICATE_FOR_TRIP"
	case errors.Is(err, service.ErrDuplicateForDirection):
		return http.StatusConflict, "DUPLICATE_FOR_DIRECTION"
	case errors.Is(err, service.ErrTripAlreadyActive):
		return http.StatusConflict, "TRIP_ALREADY_ACTIVE"
	case errors.Is(err, service.ErrAlreadyCancelled):
		return http.StatusConflict, "ALREADY_CANCELLED"
	case errors.Is(err, service.ErrAlreadyBoarded):
		return http.StatusConflict, "ALREADY_BOARDED"
	case errors.Is(err, service.ErrNotEligible):
		return http.StatusConflict, "NOT_ELIGIBLE"
	case errors.Is(err, service.ErrTripUnavailable):
		return http.StatusGone, "TRIP_UNAVAILABLE"
	case errors.Is(err, service.ErrTelemetryUnavailable):
		return http.StatusServiceUnavailable, "TELEMETRY_UNAVAILABLE"
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
