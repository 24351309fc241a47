package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/service"
)

// ProfileHandler implements GET /profile.
type ProfileHandler struct {
	Passengers *repository.PassengerRepo
	Bookings   *repository.BookingRepo
}

func NewProfileHandler(passengers *repository.PassengerRepo, bookings *repository.BookingRepo) *ProfileHandler {
	return &ProfileHandler{Passengers: passengers, Bookings: bookings}
}

// Get handles GET /profile: the passenger's own fields plus active bookings.
func (h *ProfileHandler) Get(c echo.Context) error {
	passengerID, ok := passengerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	passenger, err := h.Passengers.GetByID(c.Request().Context(), passengerID)
	if err != nil {
		return writeServiceError(c, mapRepoErr(err))
	}
	rows, err := h.Bookings.ListByPassenger(c.Request().Context(), passengerID)
	if err != nil {
		return writeServiceError(c, mapRepoErr(err))
	}
	active := make([]echo.Map, 0)
	for _, r := range rows {
		if !r.Status.NonTerminal() {
			continue
		}
		active = append(active, echo.Map{
			"bookingId":     r.ID,
			"tripId":        r.TripID,
			"status":        r.Status,
			"direction":     r.TripDirection,
			"departureTime": r.TripDepartureTime.Time,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"passengerId":     passenger.ID,
		"email":           passenger.Email,
		"displayName":     passenger.DisplayName,
		"room":            passenger.Room,
		"phone":           passenger.Phone,
		"profileComplete": passenger.ProfileDone,
		"penaltyCount":    passenger.PenaltyCount,
		"blocked":         passenger.Blocked(time.Now().UTC()),
		"activeBookings":  active,
	})
}

func mapRepoErr(err error) error {
	if err == repository.ErrNotFound {
		return service.ErrNotFound
	}
	return err
}
