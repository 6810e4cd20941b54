package notifications

import (
	"context"
	"fmt"

	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer is the receive side of the broker client.
type Consumer interface {
	Consume(queue, consumerTag string) (<-chan amqp.Delivery, error)
}

// RunAlertConsumer blocks consuming the alert queue until ctx is canceled.
// Deliveries are always acked; a failed email is captured on the notification
// record, not requeued.
func RunAlertConsumer(ctx context.Context, consumer Consumer, usecase NotificationUsecase, log *zap.Logger) error {
	deliveries, err := consumer.Consume(constvars.QueueAlert, constvars.ServiceNotification+"-alert")
	if err != nil {
		return err
	}
	log.Info("consuming", zap.String(constvars.LoggingQueueKey, constvars.QueueAlert))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", constvars.QueueAlert)
			}

			var event events.AlertEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				log.Error("discarding unparseable alert event", zap.Error(err))
			} else if err := usecase.HandleAlertEvent(ctx, event); err != nil {
				log.Error("alert handling failed",
					zap.String(constvars.LoggingDataIDKey, event.DataID),
					zap.Error(err),
				)
			}

			if err := delivery.Ack(false); err != nil {
				log.Error("failed to ack delivery", zap.Error(err))
			}
		}
	}
}

// RunErrorConsumer blocks consuming the error queue until ctx is canceled.
func RunErrorConsumer(ctx context.Context, consumer Consumer, usecase NotificationUsecase, log *zap.Logger) error {
	deliveries, err := consumer.Consume(constvars.QueueError, constvars.ServiceNotification+"-error")
	if err != nil {
		return err
	}
	log.Info("consuming", zap.String(constvars.LoggingQueueKey, constvars.QueueError))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", constvars.QueueError)
			}

			var event events.ErrorEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				log.Error("discarding unparseable error event", zap.Error(err))
			} else if err := usecase.HandleErrorEvent(ctx, event); err != nil {
				log.Error("error event handling failed",
					zap.String(constvars.LoggingDataIDKey, event.DataID),
					zap.Error(err),
				)
			}

			if err := delivery.Ack(false); err != nil {
				log.Error("failed to ack delivery", zap.Error(err))
			}
		}
	}
}
