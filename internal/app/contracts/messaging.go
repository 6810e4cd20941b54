package contracts

import "context"

// EventPublisher publishes one JSON payload to a queue, durably, and returns
// only after the broker confirms it.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
}
