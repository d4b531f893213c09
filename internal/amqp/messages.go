package amqp

import (
	"fintrack/internal/events"

	"github.com/rabbitmq/amqp091-go"
)

// newPublishing wraps an event in a persistent JSON message
func newPublishing(e events.Event) (amqp091.Publishing, error) {
	body, err := e.ToJSON()
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.ID,
		Type:         e.Type,
		Timestamp:    e.OccurredAt,
		Body:         body,
	}, nil
}

// routingKey appends the event type to the configured prefix,
// e.g. "ledger_events.transaction.created"
func routingKey(prefix string, e events.Event) string {
	if prefix == "" {
		return e.Type
	}
	return prefix + "." + e.Type
}
