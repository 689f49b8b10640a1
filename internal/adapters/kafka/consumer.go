package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"notify-gateway/internal/gateway"
)

// Notifier is the slice of the gateway the consumer needs.
type Notifier interface {
	Notify(req *gateway.NotificationRequest)
}

// Consumer reads notification events from the topic and hands them to the
// gateway. Backend services publish here instead of holding a socket open.
type Consumer struct {
	reader   *kafkago.Reader
	notifier Notifier
	logger   *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, notifier Notifier, logger *slog.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: reader, notifier: notifier, logger: logger}
}

// Run consumes until ctx is cancelled. Undecodable events are logged and
// skipped; delivery itself is best effort, so there is nothing to retry.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		req, eventID, err := DecodeNotification(msg.Value)
		if err != nil {
			c.logger.Error("skipping undecodable notification event",
				"error", err, "offset", msg.Offset, "partition", msg.Partition)
			continue
		}
		c.logger.Debug("notification consumed",
			"eventId", eventID, "userId", req.Selector.UserID, "endpoint", req.Endpoint)
		c.notifier.Notify(req)
	}
}

// DecodeNotification maps a topic payload to a delivery request. The
// user id wins when both identifiers are present.
func DecodeNotification(value []byte) (*gateway.NotificationRequest, string, error) {
	var event NotificationEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, "", err
	}
	if event.UserID == "" && event.ConnectionID == "" {
		return nil, event.EventID, errors.New("notification event has no target")
	}

	selector := gateway.ByConnectionID(event.ConnectionID)
	if event.UserID != "" {
		selector = gateway.ByUserID(event.UserID)
	}
	return &gateway.NotificationRequest{
		Selector:   selector,
		Endpoint:   event.SocketEndpointName,
		Payload:    event.Message,
		CanRespond: true,
	}, event.EventID, nil
}
