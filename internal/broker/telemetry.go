// Package broker publishes domain events to RabbitMQ. It follows the same
// dial/channel/publish shape as the teacher's
// internal/service/queue_publisher.go, but TEL (spec.md §4.7) requires
// fan-out keyed by trip rather than delivery to one named queue, so
// publication goes through a topic exchange with a per-trip routing key
// instead of the teacher's single booking.confirmed queue.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const locationExchange = "bus.location"

// PositionReport is the payload published to bus/location/{tripId}, shaped
// exactly as spec.md §6 mandates.
type PositionReport struct {
	TripID uint64  `json:"tripId"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Speed  float64 `json:"speed"`
	TS     string  `json:"ts"`
}

// TelemetryPublisher publishes position reports to the location topic
// exchange. It holds no open connection: each PublishPosition call dials the
// broker and returns any dial or publish error, which the TEL service
// reports as spec.md §4.7's TELEMETRY_UNAVAILABLE failure.
type TelemetryPublisher struct {
	url string
}

// NewTelemetryPublisher constructs a publisher bound to a broker URL. The
// connection is opened per-publish, same as the teacher's
// PublishBookingConfirmed, since telemetry publishes are infrequent
// (~every 30s per operator) and tolerate the extra round trip.
func NewTelemetryPublisher(url string) *TelemetryPublisher {
	return &TelemetryPublisher{url: url}
}

// PublishPosition serialises and publishes a position report with
// at-least-once delivery to a routing key derived from the trip ID.
func (p *TelemetryPublisher) PublishPosition(ctx context.Context, report PositionReport) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("telemetry: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("telemetry: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(locationExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("telemetry: exchange declare: %w", err)
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("telemetry: marshal: %w", err)
	}

	routingKey := fmt.Sprintf("bus.location.%d", report.TripID)
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, locationExchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("telemetry: publish: %w", err)
	}
	return nil
}

// BookingLifecycleEvent mirrors the teacher's BookingConfirmedEvent shape
// but generalised to every booking-state transition for the audit-trail
// queue named in DESIGN.md.
type BookingLifecycleEvent struct {
	BookingID   uint64 `json:"booking_id"`
	PassengerID uint64 `json:"passenger_id"`
	TripID      uint64 `json:"trip_id"`
	Transition  string `json:"transition"` // CONFIRMED | WAITLISTED | CANCELLED | PROMOTED | BOARDED
	OccurredAt  string `json:"occurred_at"`
}

const lifecycleQueueName = "booking.lifecycle"

// LifecyclePublisher publishes booking-state transitions for audit
// purposes, grounded directly on the teacher's PublishBookingConfirmed.
type LifecyclePublisher struct {
	url string
}

// NewLifecyclePublisher constructs a publisher bound to a broker URL.
func NewLifecyclePublisher(url string) *LifecyclePublisher {
	return &LifecyclePublisher{url: url}
}

// Publish sends a lifecycle event to the durable booking.lifecycle queue.
// Errors are returned, not swallowed, so callers can log-and-ignore at
// their discretion the way the teacher's PublishBookingConfirmed callers do.
func (p *LifecyclePublisher) Publish(ctx context.Context, ev BookingLifecycleEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("lifecycle: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("lifecycle: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(lifecycleQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("lifecycle: queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("lifecycle: marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	return ch.PublishWithContext(ctx, "", lifecycleQueueName, false, false, pub)
}
