package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"markmycampus/internal/model"
)

type MarkerEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewMarkerEventPublisher(conn *amqp.Connection, queueName string) *MarkerEventPublisher {
	return &MarkerEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *MarkerEventPublisher) Publish(ctx context.Context, event model.MarkerEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal marker event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish marker event failed: %w", err)
	}
	return nil
}
