package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/service"
)

// AuthHandler implements POST /auth/federated and PUT /auth/complete-profile.
// Repurposes the teacher's register/login/refresh handler file for the
// single passenger-identity flow this domain actually has: there is no
// password to check here, only a verified email claim from an external
// identity provider (spec.md §1).
type AuthHandler struct {
	Auth *service.PassengerAuth
}

func NewAuthHandler(auth *service.PassengerAuth) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type federatedLoginReq struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Login handles POST /auth/federated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req federatedLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Email == "" || req.DisplayName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}

	result, err := h.Auth.Login(c.Request().Context(), req.Email, req.DisplayName)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"passengerId":     result.Passenger.ID,
		"token":           result.Token.Token,
		"isNewUser":       result.IsNewUser,
		"profileComplete": result.ProfileComplete,
	})
}

type completeProfileReq struct {
	PassengerID uint64 `json:"passengerId"`
	Room        string `json:"room"`
	Phone       string `json:"phone"`
}

// CompleteProfile handles PUT /auth/complete-profile.
func (h *AuthHandler) CompleteProfile(c echo.Context) error {
	passengerID, ok := passengerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
	}
	var req completeProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "MALFORMED_REQUEST"})
	}
	if err := h.Auth.CompleteProfile(c.Request().Context(), passengerID, req.Room, req.Phone); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profileComplete": true})
}

func passengerIDFromContext(c echo.Context) (uint64, bool) {
	raw, ok := c.Get("passenger_id").(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func operatorIDFromContext(c echo.Context) (uint64, bool) {
	raw, ok := c.Get("operator_id").(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
