package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventSnapshotExported EventType = "snapshot-exported"
)

// eventAttribute carries the EventType on every published message.
const eventAttribute = "event"
