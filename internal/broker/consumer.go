package broker

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/campusbus/reservation-core/internal/logger"
)

// StartLifecycleConsumer connects to RabbitMQ, declares the
// booking.lifecycle queue (durable), and logs every event it receives. It
// runs a reconnect loop with capped exponential backoff, the same shape as
// the teacher's queue.StartBookingConsumer, generalised from a file-backed
// log to the structured logger carried throughout this service.
func StartLifecycleConsumer(url string, log logger.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("lifecycle-consumer: dial failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLifecycle(conn, log); err != nil {
			log.Warn("lifecycle-consumer: consume loop ended", "error", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLifecycle(conn *amqp.Connection, log logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("lifecycle-consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(lifecycleQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(lifecycleQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var ev BookingLifecycleEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Warn("lifecycle-consumer: bad payload", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		log.Info("booking lifecycle event",
			"booking_id", ev.BookingID, "passenger_id", ev.PassengerID,
			"trip_id", ev.TripID, "transition", ev.Transition, "occurred_at", ev.OccurredAt)
		_ = d.Ack(false)
	}
	return fmt.Errorf("deliveries channel closed")
}
