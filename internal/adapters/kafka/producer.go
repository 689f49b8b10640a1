// Package kafka connects the gateway to the notification topic: a sarama
// producer for publishing and a kafka-go consumer feeding the reactor.
package kafka

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// NotificationEvent is the topic payload. Exactly one of UserID or
// ConnectionID selects the target; SocketEndpointName picks the handler.
// EventID correlates publisher and gateway logs for one event.
type NotificationEvent struct {
	EventID            string          `json:"eventId,omitempty"`
	UserID             string          `json:"userId,omitempty"`
	ConnectionID       string          `json:"connectionId,omitempty"`
	SocketEndpointName string          `json:"socketEndpointName,omitempty"`
	Message            json.RawMessage `json:"message,omitempty"`
}

// NewSyncProducer builds the producer used by cmd/notify and any backend
// service publishing to the notification topic.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "notify-gateway"

	return sarama.NewSyncProducer(brokers, config)
}

// Publish sends one notification event, keyed by user id so events for the
// same user stay ordered within a partition.
func Publish(producer sarama.SyncProducer, topic string, event NotificationEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(value),
	}
	if event.UserID != "" {
		msg.Key = sarama.StringEncoder(event.UserID)
	}
	_, _, err = producer.SendMessage(msg)
	return err
}
