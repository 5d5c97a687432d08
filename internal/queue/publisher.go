package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventPublisher publishes order lifecycle events. Implementations must be
// safe to call from request handlers; failures are reported but callers are
// expected to ignore them.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	OrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
}

// Publisher publishes events to RabbitMQ. It dials per publish so a broker
// restart never leaves the service holding a dead connection.
type Publisher struct {
	url string
}

// Ensure Publisher implements EventPublisher
var _ EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// OrderPlaced publishes an OrderPlacedEvent to the order.placed queue.
func (p *Publisher) OrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	return p.publish(ctx, QueueOrderPlaced, event)
}

// OrderStatusChanged publishes an OrderStatusChangedEvent to the
// order.status_changed queue.
func (p *Publisher) OrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error {
	return p.publish(ctx, QueueOrderStatusChanged, event)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return fmt.Errorf("declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
