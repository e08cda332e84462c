// Package queue_publisher publishes domain events to RabbitMQ. Errors
// are logged and returned so callers can ignore failures without
// interrupting the main request flow: a lost event never fails the
// HTTP operation that produced it.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/gearguard/maintenance-api/internal/queue"
)

// PublishRequestCreated publishes a RequestCreatedEvent to the
// request.created queue.
func PublishRequestCreated(ctx context.Context, ev q.RequestCreatedEvent) error {
	return publish(ctx, q.RequestCreatedQueue, ev)
}

// PublishEquipmentScrapped publishes an EquipmentScrappedEvent to the
// equipment.scrapped queue.
func PublishEquipmentScrapped(ctx context.Context, ev q.EquipmentScrappedEvent) error {
	return publish(ctx, q.EquipmentScrappedQueue, ev)
}

// publish opens a short-lived connection, declares the queue
// (idempotent, durable) and publishes the payload as persistent JSON.
func publish(ctx context.Context, queueName string, payload interface{}) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
