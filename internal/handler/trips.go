package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/repository"
)

// TripHandler implements GET /trips/available and the admin POST /trips.
type TripHandler struct {
	Trips *repository.TripRepo
}

func NewTripHandler(trips *repository.TripRepo) *TripHandler {
	return &TripHandler{Trips: trips}
}

// ListAvailable handles GET /trips/available?route=...&date=....
func (h *TripHandler) ListAvailable(c echo.Context) error {
	direction := model.Direction(c.QueryParam("route"))
	if direction != model.DirectionAToB && direction != model.DirectionBToA {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	rows, err := h.Trips.ListAvailable(c.Request().Context(), direction, date, time.Now().UTC())
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, echo.Map{
			"tripId":         r.TripID,
			"departureTime":  r.DepartureTime,
			"destination":    r.Destination,
			"busLabel":       r.BusLabel,
			"capacity":       r.Capacity,
			"bookedCount":    r.BookedCount,
			"waitlistCount":  r.WaitlistCount,
			"availableSeats": r.AvailableSeats,
			"dayClass":       r.DayClass,
		})
	}
	return c.JSON(http.StatusOK, out)
}

type createTripReq struct {
	Direction       model.Direction `json:"direction"`
	Destination     string          `json:"destination"`
	BusLabel        string          `json:"busLabel"`
	Date            string          `json:"date"`
	DepartureTime   string          `json:"departureTime"`
	Capacity        int             `json:"capacity"`
	FacultyReserved int             `json:"facultyReserved"`
	DayClass        model.DayClass  `json:"dayClass"`
}

// Create handles the administrative POST /trips.
func (h *TripHandler) Create(c echo.Context) error {
	var req createTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	capacity := req.Capacity
	if capacity == 0 {
		capacity = model.DefaultCapacity
	}
	if capacity > model.MaxCapacity {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	facultyReserved := req.FacultyReserved
	if facultyReserved == 0 {
		facultyReserved = model.DefaultFacultyReserve
	}
	if facultyReserved > capacity/2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	trip, err := h.Trips.Create(c.Request().Context(), model.Trip{
		Direction:       req.Direction,
		Destination:     strPtr(req.Destination),
		BusLabel:        strPtr(req.BusLabel),
		Date:            date,
		DepartureTime:   departure,
		Capacity:        capacity,
		FacultyReserved: facultyReserved,
		DayClass:        req.DayClass,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"tripId": trip.ID})
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseUintParam(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
