package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Pub/Sub in projectID using application default credentials.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{client: pubSubC}, nil
}

// SendMessage publishes data, encoded as MessagePack, to topic and waits for the server ack.
func (c *client) SendMessage(ctx context.Context, topic string, event EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{eventAttribute: string(event)},
	}
	t := c.client.Topic(topic)
	defer t.Stop()

	serverID, err := t.Publish(ctx, message).Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return fmt.Errorf("failed to publish %s to %s: %w", event, topic, err)
	}
	log.Info("SendMessage", "serverID", serverID, "topic", topic, "event", event, "bytes", len(msgpackData))
	return nil
}

func (c *client) Close() error {
	return c.client.Close()
}

// Encode marshals data as MessagePack.
func Encode(data any) ([]byte, error) {
	return msgpack.Marshal(data)
}

// Decode unmarshals a MessagePack payload published by SendMessage into the provided pointer.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
