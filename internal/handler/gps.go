package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/service"
)

// GPSHandler implements POST /operator/gps.
type GPSHandler struct {
	Telemetry *service.Telemetry
}

func NewGPSHandler(t *service.Telemetry) *GPSHandler {
	return &GPSHandler{Telemetry: t}
}

type gpsReq struct {
	TripID uint64  `json:"tripId"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Speed  float64 `json:"speed"`
	TS     *string `json:"ts"`
}

// Publish handles POST /operator/gps.
func (h *GPSHandler) Publish(c echo.Context) error {
	if _, ok := operatorIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	var req gpsReq
	if err := c.Bind(&req); err != nil || req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	var ts *time.Time
	if req.TS != nil && *req.TS != "" {
		parsed, err := time.Parse(time.RFC3339, *req.TS)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
		}
		ts = &parsed
	}

	if err := h.Telemetry.PublishPosition(c.Request().Context(), req.TripID, req.Lat, req.Lon, req.Speed, ts); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"accepted": true, "ts": time.Now().UTC().Format(time.RFC3339)})
}
