package broker

import (
	"context"
	"fmt"
	"sync"

	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Client owns one AMQP channel. Each pipeline component constructs its own
// Client from the shared connection; nothing here is process-wide.
type Client struct {
	ch       *amqp.Channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewClient opens a channel, declares the given queues as durable, sets QoS,
// and enables publisher confirms.
func NewClient(conn *amqp.Connection, log *zap.Logger, prefetch int, queues ...string) (*Client, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, queue := range queues {
		_, err = ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	// Limit unacked deliveries in-flight so a consumer handles one message
	// at a time per channel
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	client := &Client{
		ch:       ch,
		log:      log,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return client, nil
}

// Publish marshals payload, publishes it persistently, and waits for the
// broker confirm.
func (c *Client) Publish(ctx context.Context, queue string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := c.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-c.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}

// Consume starts delivering messages from queue without auto-ack; the caller
// acknowledges each delivery once its handler has completed.
func (c *Client) Consume(queue, consumerTag string) (<-chan amqp.Delivery, error) {
	deliveries, err := c.ch.Consume(
		queue,
		consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, exceptions.ErrRabbitMQConsumeQueue(err, queue)
	}
	return deliveries, nil
}

func (c *Client) Close() error {
	return c.ch.Close()
}
