// Package router wires HTTP routes to handlers and middleware, following
// the teacher's group-per-concern layout (a public group, a passenger
// group, an operator group) rather than one flat route table.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/handler"
	"github.com/campusbus/reservation-core/internal/metrics"
	"github.com/campusbus/reservation-core/internal/middleware"
	"github.com/campusbus/reservation-core/internal/token"
)

// Handlers bundles every BND handler the router dispatches to.
type Handlers struct {
	Auth         *handler.AuthHandler
	Trips        *handler.TripHandler
	Bookings     *handler.BookingHandler
	Profile      *handler.ProfileHandler
	Operator     *handler.OperatorHandler
	Boarding     *handler.BoardingHandler
	Reports      *handler.ReportHandler
	GPS          *handler.GPSHandler
	BoardingPass *handler.BoardingPassHandler
}

// Register mounts every route of spec.md §6 plus the supplemented endpoints
// of SPEC_FULL.md §5.1 onto e.
func Register(e *echo.Echo, h Handlers, tokens *token.Service, cache echo.MiddlewareFunc, limiter echo.MiddlewareFunc, m *metrics.Metrics) {
	e.Use(middleware.Metrics(m))
	e.GET("/healthz", handler.Health)

	// Unauthenticated passenger entry point.
	e.POST("/auth/federated", h.Auth.Login)

	// Passenger-authenticated routes.
	passenger := e.Group("")
	passenger.Use(middleware.PassengerAuth(tokens))
	if limiter != nil {
		passenger.Use(limiter)
	}
	passenger.PUT("/auth/complete-profile", h.Auth.CompleteProfile)
	passenger.POST("/bookings", h.Bookings.Book)
	passenger.DELETE("/bookings/:id", h.Bookings.Cancel)
	passenger.GET("/bookings/history", h.Bookings.History)
	passenger.GET("/profile", h.Profile.Get)
	passenger.GET("/v1/bookings/:id/boarding-pass.pdf", h.BoardingPass.Download)

	tripsAvailable := e.Group("")
	tripsAvailable.Use(middleware.PassengerAuth(tokens))
	if cache != nil {
		tripsAvailable.Use(cache)
	}
	tripsAvailable.GET("/trips/available", h.Trips.ListAvailable)

	// Administrative trip creation reuses operator auth: the spec names no
	// separate admin realm, and an operator account is the only internal
	// identity this system has.
	admin := e.Group("")
	admin.Use(middleware.OperatorAuth(tokens))
	admin.POST("/trips", h.Trips.Create)

	// Operator-authenticated routes.
	operator := e.Group("/operator")
	e.POST("/operator/login", h.Operator.Login)
	operator.Use(middleware.OperatorAuth(tokens))
	operator.GET("/trips", h.Operator.ListTrips)
	operator.POST("/trips/start", h.Operator.StartAssignment)
	operator.POST("/trips/:tripId/complete", h.Operator.CompleteAssignment)
	operator.GET("/trips/:tripId/passengers", h.Operator.Passengers)
	operator.POST("/reports", h.Reports.Submit)
	operator.POST("/gps", h.GPS.Publish)

	boarding := e.Group("/boarding")
	boarding.Use(middleware.OperatorAuth(tokens))
	boarding.POST("/validate", h.Boarding.Validate)
}
