package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbus/reservation-core/internal/metrics"
)

// Metrics returns an Echo middleware that records request latency per route
// into the given Metrics instance.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			m.RequestDuration.WithLabelValues(c.Path()).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
