// Package metrics exposes operational counters/histograms over the core's
// hot paths, grounded on _examples/ridhomain-mc/pkg/metrics/prometheus.go
// (promauto constructors, namespaced). This is ambient observability, not
// the "dashboards and analytics" spec.md places out of scope — see
// SPEC_FULL.md §2.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's counters/histograms. Only RequestDuration is
// recorded (by middleware.Metrics); BookingsTotal, BoardingScansTotal and
// TelemetryPublishes are registered but nothing increments them.
type Metrics struct {
	BookingsTotal      *prometheus.CounterVec
	BoardingScansTotal *prometheus.CounterVec
	TelemetryPublishes *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New constructs a Metrics instance registered under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome (confirmed, waitlisted, rejected).",
		}, []string{"outcome"}),
		BoardingScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boarding_scans_total",
			Help:      "Boarding-token validations by outcome.",
		}, []string{"outcome"}),
		TelemetryPublishes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_publishes_total",
			Help:      "GPS telemetry publish attempts by outcome.",
		}, []string{"outcome"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
