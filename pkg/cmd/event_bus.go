package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/channels/kafka"
	"github.com/dukex/flowdesk/pkg/eventbus"
)

const serviceName = "flowdesk"

// NewEventBus builds the bus for provider: "gochannel" (the default) keeps
// events in process, "kafka" publishes to brokers.
func NewEventBus(provider string, logger *slog.Logger, brokers []string, otelEnabled bool) (eventbus.EventBus, error) {
	adapter := watermill.NewSlogLogger(logger)

	switch provider {
	case "", "gochannel":
		pub, sub, err := gochannel.CreateChannel(adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create go channel pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	case "sync":
		pub, sub, err := gochannel.CreateSyncChannel(adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create go channel pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(adapter, serviceName, brokers, otelEnabled)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, logger), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
