package interfaces

import "context"

// EventPublisher delivers committed-mutation events to interested
// downstream consumers. Delivery is best-effort from the engine's point
// of view; a failed publish never affects ledger state.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
