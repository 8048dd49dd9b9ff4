package interfaces

import "context"

// EventPublisher delivers domain events to the message broker.
// Publishing is best effort from the caller's perspective: a failed
// publish never invalidates already persisted state.
type EventPublisher interface {
	Publish(ctx context.Context, event any, exchange, routingKey string) error
}
