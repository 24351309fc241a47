package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/model"
	"github.com/campusbus/reservation-core/internal/service"
)

// ReportHandler implements POST /operator/reports.
type ReportHandler struct {
	Evidence *service.Evidence
}

func NewReportHandler(e *service.Evidence) *ReportHandler {
	return &ReportHandler{Evidence: e}
}

type submitReportReq struct {
	PassengerID uint64             `json:"passengerId"`
	TripID      uint64             `json:"tripId"`
	Reason      model.ReportReason `json:"reason"`
	Comments    *string            `json:"comments"`
	ImageBase64 string             `json:"imageBase64"`
}

// Submit handles POST /operator/reports.
func (h *ReportHandler) Submit(c echo.Context) error {
	operatorID, ok := operatorIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	var req submitReportReq
	if err := c.Bind(&req); err != nil || req.PassengerID == 0 || req.TripID == 0 || !req.Reason.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	var photo []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
		}
		photo = decoded
	}

	report, err := h.Evidence.Submit(c.Request().Context(), service.SubmitInput{
		PassengerID: req.PassengerID,
		TripID:      req.TripID,
		OperatorID:  operatorID,
		Reason:      req.Reason,
		Comments:    req.Comments,
		Photo:       photo,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reportId": report.ID})
}
