package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/service"
)

// BoardingPassHandler implements the supplemented
// GET /v1/bookings/{id}/boarding-pass.pdf endpoint.
type BoardingPassHandler struct {
	Bookings   *repository.BookingRepo
	Trips      *repository.TripRepo
	Passengers *repository.PassengerRepo
	Renderer   service.BoardingPass
}

func NewBoardingPassHandler(bookings *repository.BookingRepo, trips *repository.TripRepo, passengers *repository.PassengerRepo) *BoardingPassHandler {
	return &BoardingPassHandler{Bookings: bookings, Trips: trips, Passengers: passengers}
}

// Download handles GET /v1/bookings/{id}/boarding-pass.pdf.
func (h *BoardingPassHandler) Download(c echo.Context) error {
	passengerID, ok := passengerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	bookingID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return writeServiceError(c, mapRepoErr(err))
	}
	if booking.PassengerID != passengerID {
		return writeServiceError(c, service.ErrForbidden)
	}
	if booking.Status != model.BookingConfirmed && booking.Status != model.BookingBoarded {
		return writeServiceError(c, service.ErrNotEligible)
	}
	if booking.BoardingToken == nil {
		return writeServiceError(c, service.ErrNotFound)
	}

	trip, err := h.Trips.GetByID(ctx, booking.TripID)
	if err != nil {
		return writeServiceError(c, mapRepoErr(err))
	}
	passenger, err := h.Passengers.GetByID(ctx, passengerID)
	if err != nil {
		return writeServiceError(c, mapRepoErr(err))
	}

	destination := ""
	if trip.Destination != nil {
		destination = *trip.Destination
	}
	busLabel := ""
	if trip.BusLabel != nil {
		busLabel = *trip.BusLabel
	}

	bytesOut, filename, err := h.Renderer.Render(service.PassData{
		BookingID:     booking.ID,
		PassengerName: passenger.DisplayName,
		Direction:     trip.Direction,
		Destination:   destination,
		BusLabel:      busLabel,
		DepartureDate: trip.Date.Format("2006-01-02"),
		DepartureTime: trip.DepartureTime.Format("15:04"),
		BoardingToken: *booking.BoardingToken,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", appendContentDisposition(c, filename, bytesOut))
}

func appendContentDisposition(c echo.Context, filename string, data []byte) []byte {
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return data
}
