package icu

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

// RunConsumer blocks consuming the vitals-extracted queue until ctx is
// canceled. Every delivery is acked after handling; failures are reported
// through the error queue by the usecase, not by requeueing.
func RunConsumer(ctx context.Context, consumer Consumer, usecase ICUUsecase, log *zap.Logger) error {
	deliveries, err := consumer.Consume(constvars.QueueVitalsExtracted, constvars.ServiceICU)
	if err != nil {
		return err
	}
	log.Info("consuming", zap.String(constvars.LoggingQueueKey, constvars.QueueVitalsExtracted))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", constvars.QueueVitalsExtracted)
			}

			var event events.VitalsExtracted
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				log.Error("discarding unparseable vitals-extracted event", zap.Error(err))
			} else if err := usecase.HandleVitalsExtracted(ctx, event); err != nil {
				log.Error("vitals-extracted handling failed",
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
