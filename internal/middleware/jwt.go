package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/campusbus/reservation-core/internal/token"
)

// PassengerAuth returns an Echo middleware that validates a Bearer token of
// kind "passenger" and injects the passenger ID and email claim into the
// request context. Generalises the teacher's single-realm JWTAuth
// (internal/middleware/jwt.go) into a realm-specific variant so a passenger
// token can never be replayed against an operator-only route and vice
// versa, per spec.md §4.1's "kind" discriminant.
func PassengerAuth(svc *token.Service) echo.MiddlewareFunc {
	return tokenAuth(svc, token.KindPassengerSession, func(c echo.Context, claims token.Claims) {
		c.Set("passenger_id", claims.Subject)
		if email, ok := claims.Extra["email"].(string); ok {
			c.Set("email", email)
		}
	})
}

// OperatorAuth returns an Echo middleware that validates a Bearer token of
// kind "operator" and injects the operator ID and employeeId claim.
func OperatorAuth(svc *token.Service) echo.MiddlewareFunc {
	return tokenAuth(svc, token.KindOperatorSession, func(c echo.Context, claims token.Claims) {
		c.Set("operator_id", claims.Subject)
		if employeeID, ok := claims.Extra["employeeId"].(string); ok {
			c.Set("employee_id", employeeID)
		}
	})
}

func tokenAuth(svc *token.Service, kind token.Kind, onSuccess func(echo.Context, token.Claims)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
			}
			claims, err := svc.Verify(raw, kind)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "EXPIRED_TOKEN"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "MISSING_CREDENTIALS"})
			}
			onSuccess(c, claims)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	const prefix = "Bearer "
	auth := c.Request().Header.Get("Authorization")
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return ""
	}
	return auth[len(prefix):]
}
