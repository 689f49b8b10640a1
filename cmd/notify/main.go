// notify publishes one notification event to the gateway topic. Useful
// for smoke testing deliveries without going through the backend.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"notify-gateway/internal/adapters/kafka"
	"notify-gateway/internal/config"
)

func main() {
	userID := flag.String("user", "", "target user id (all announced tabs)")
	connectionID := flag.String("connection", "", "target connection id")
	endpoint := flag.String("endpoint", "notification-broadcast", "socket endpoint name")
	message := flag.String("message", "{}", "JSON payload to deliver")
	flag.Parse()

	if *userID == "" && *connectionID == "" {
		fmt.Fprintln(os.Stderr, "notify: -user or -connection is required")
		os.Exit(2)
	}
	if !json.Valid([]byte(*message)) {
		fmt.Fprintln(os.Stderr, "notify: -message must be valid JSON")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatal("Failed to create producer:", err)
	}
	defer producer.Close()

	event := kafka.NotificationEvent{
		UserID:             *userID,
		ConnectionID:       *connectionID,
		SocketEndpointName: *endpoint,
		Message:            json.RawMessage(*message),
	}
	if err := kafka.Publish(producer, cfg.Kafka.Topic, event); err != nil {
		log.Fatal("Failed to publish:", err)
	}
	fmt.Println("notification published")
}
