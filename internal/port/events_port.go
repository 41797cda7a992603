package port

import "context"

// EventPublisher emits terminal checkout events to the message bus.
// Publishing is fire-and-forget: failures are logged by the implementation
// and never surface to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any)
}
