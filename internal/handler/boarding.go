package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/service"
)

// BoardingHandler implements POST /boarding/validate.
type BoardingHandler struct {
	Validator *service.BoardingValidator
}

func NewBoardingHandler(v *service.BoardingValidator) *BoardingHandler {
	return &BoardingHandler{Validator: v}
}

type validateReq struct {
	BoardingToken string `json:"boardingToken"`
	TripID        uint64 `json:"tripId"`
}

// Validate handles POST /boarding/validate.
func (h *BoardingHandler) Validate(c echo.Context) error {
	if _, ok := operatorIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	var req validateReq
	if err := c.Bind(&req); err != nil || req.BoardingToken == "" || req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	result, err := h.Validator.Validate(c.Request().Context(), req.TripID, req.BoardingToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	status := "BOARDED"
	if result.AlreadyBoarded {
		status = "ALREADY_BOARDED"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":       true,
		"status":      status,
		"bookingId":   result.BookingID,
		"passengerId": result.PassengerID,
	})
}
