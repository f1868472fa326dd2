package pubsub

import "context"

// PubSubClient publishes sync events.
type PubSubClient interface {
	SendMessage(ctx context.Context, topic string, event EventType, data any) error
	Close() error
}
