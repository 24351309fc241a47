package service

import (
	"context"
	"time"

	"github.com/campusbus/reservation-core/internal/broker"
)

// Telemetry implements TEL: GPS position publishing per spec.md §4.7.
type Telemetry struct {
	Publisher *broker.TelemetryPublisher
}

// PublishPosition validates a reported position and forwards it to the
// location topic exchange.
func (t *Telemetry) PublishPosition(ctx context.Context, tripID uint64, lat, lon, speed float64, ts *time.Time) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	when := time.Now().UTC()
	if ts != nil {
		when = *ts
	}
	report := broker.PositionReport{
		TripID: tripID,
		Lat:    lat,
		Lon:    lon,
		Speed:  speed,
		TS:     when.Format(time.RFC3339),
	}
	if err := t.Publisher.PublishPosition(ctx, report); err != nil {
		return ErrTelemetryUnavailable
	}
	return nil
}
