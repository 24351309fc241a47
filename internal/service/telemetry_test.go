package service

import (
	"context"
	"errors"
	"testing"
)

func TestTelemetryPublishPositionRejectsOutOfRangeCoordinates(t *testing.T) {
	tel := &Telemetry{}
	cases := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 91, 0},
		{"latitude too low", -91, 0},
		{"longitude too high", 0, 181},
		{"longitude too low", 0, -181},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tel.PublishPosition(context.Background(), 1, tc.lat, tc.lon, 10, nil)
			if !errors.Is(err, ErrInvalidCoordinate) {
				t.Fatalf("PublishPosition() error = %v, want ErrInvalidCoordinate", err)
			}
		})
	}
}
