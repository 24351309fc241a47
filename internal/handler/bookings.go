package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/service"
)

// BookingHandler implements POST /bookings, DELETE /bookings/{id}, and
// GET /bookings/history.
type BookingHandler struct {
	Allocator *service.Allocator
	Waitlist  *service.Waitlist
	Bookings  *repository.BookingRepo
}

func NewBookingHandler(alloc *service.Allocator, wl *service.Waitlist, bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Allocator: alloc, Waitlist: wl, Bookings: bookings}
}

type bookReq struct {
	TripID uint64 `json:"tripId"`
}

// Book handles POST /bookings.
func (h *BookingHandler) Book(c echo.Context) error {
	passengerID, ok := passengerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil || req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	result, err := h.Allocator.Book(c.Request().Context(), passengerID, req.TripID)
	if err != nil {
		return writeServiceError(c, err)
	}
	resp := echo.Map{"bookingId": result.BookingID, "status": result.Status}
	if result.BoardingToken != nil {
		resp["boardingToken"] = *result.BoardingToken
	}
	if result.WaitlistPosition != nil {
		resp["waitlistPosition"] = *result.WaitlistPosition
	}
	return c.JSON(http.StatusCreated, resp)
}

// Cancel handles DELETE /bookings/{id}.
func (h *BookingHandler) Cancel(c echo.Context) error {
	passengerID, ok := passengerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	bookingID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	if _, err := h.Waitlist.Cancel(c.Request().Context(), passengerID, bookingID); err != nil {
		// A repeat cancel of an already-cancelled booking is semantically
		// idempotent per spec.md §7's "advisory outcomes" rule: the booking
		// ends up CANCELLED either way, so this is reported as success
		// rather than a 409.
		if errors.Is(err, service.ErrAlreadyCancelled) {
			return c.JSON(http.StatusOK, echo.Map{"message": "CANCELLED", "status": "ALREADY_CANCELLED"})
		}
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "CANCELLED"})
}

// History handles GET /bookings/history.
func (h *BookingHandler) History(c echo.Context) error {
	passengerID, ok := passengerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	rows, err := h.Bookings.ListByPassenger(c.Request().Context(), passengerID)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		entry := echo.Map{
			"bookingId":     r.ID,
			"tripId":        r.TripID,
			"status":        r.Status,
			"createdAt":     r.CreatedAt,
			"direction":     r.TripDirection,
			"destination":   r.TripDestination,
		}
		if r.TripDepartureTime.Valid {
			entry["departureTime"] = r.TripDepartureTime.Time
		}
		if r.WaitlistPosition != nil {
			entry["waitlistPosition"] = *r.WaitlistPosition
		}
		if r.BoardedAt != nil {
			entry["boardedAt"] = *r.BoardedAt
		}
		out = append(out, entry)
	}
	return c.JSON(http.StatusOK, out)
}
