package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/repository"
	"github.com/campusbus/reservation-core/internal/service"
)

// OperatorHandler implements the /operator/* surface of spec.md §4.6.
type OperatorHandler struct {
	Sessions *service.OperatorSession
	Bookings *repository.BookingRepo
}

func NewOperatorHandler(sessions *service.OperatorSession, bookings *repository.BookingRepo) *OperatorHandler {
	return &OperatorHandler{Sessions: sessions, Bookings: bookings}
}

type operatorLoginReq struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// Login handles POST /operator/login.
func (h *OperatorHandler) Login(c echo.Context) error {
	var req operatorLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.Password == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	result, err := h.Sessions.Login(c.Request().Context(), req.EmployeeID, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":       result.Token.Token,
		"operatorId":  result.OperatorID,
		"displayName": result.DisplayName,
	})
}

// ListTrips handles GET /operator/trips.
func (h *OperatorHandler) ListTrips(c echo.Context) error {
	operatorID, ok := operatorIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	date := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
		}
		date = parsed
	}
	views, err := h.Sessions.ListTrips(c.Request().Context(), operatorID, date)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]echo.Map, 0, len(views))
	for _, v := range views {
		entry := echo.Map{
			"tripId":        v.Trip.ID,
			"direction":     v.Trip.Direction,
			"departureTime": v.Trip.DepartureTime,
			"status":        v.Trip.Status,
		}
		if v.HasAssignment {
			entry["assignmentStatus"] = v.AssignmentStatus
		}
		out = append(out, entry)
	}
	return c.JSON(http.StatusOK, echo.Map{"trips": out, "date": date.Format("2006-01-02")})
}

type startAssignmentReq struct {
	TripID   uint64 `json:"tripId"`
	BusLabel string `json:"busLabel"`
}

// StartAssignment handles POST /operator/trips/start.
func (h *OperatorHandler) StartAssignment(c echo.Context) error {
	operatorID, ok := operatorIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	var req startAssignmentReq
	if err := c.Bind(&req); err != nil || req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	assignment, err := h.Sessions.StartAssignment(c.Request().Context(), operatorID, req.TripID, strPtr(req.BusLabel))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"assignmentId": assignment.ID, "status": assignment.Status})
}

// CompleteAssignment handles the supplemented POST /operator/trips/{id}/complete.
func (h *OperatorHandler) CompleteAssignment(c echo.Context) error {
	operatorID, ok := operatorIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	tripID, err := parseUintParam(c, "tripId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	if err := h.Sessions.CompleteAssignment(c.Request().Context(), operatorID, tripID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "COMPLETED"})
}

// Passengers handles GET /operator/trips/{tripId}/passengers.
func (h *OperatorHandler) Passengers(c echo.Context) error {
	if _, ok := operatorIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	tripID, err := parseUintParam(c, "tripId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	rows, err := h.Bookings.ListPassengersForTrip(c.Request().Context(), tripID)
	if err != nil {
		return writeServiceError(c, err)
	}
	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, echo.Map{
			"bookingId":   r.BookingID,
			"passengerId": r.PassengerID,
			"displayName": r.DisplayName,
			"status":      r.Status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"tripId": tripID, "passengers": out, "totalCount": len(out)})
}
