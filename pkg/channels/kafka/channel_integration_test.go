package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowdesk/pkg/channels/kafka"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkaTc "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestCreateChannel_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Kafka container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := kafkaTc.Run(ctx, "confluentinc/confluent-local:7.7.0")
	require.NoError(t, err)

	t.Cleanup(func() {
		err := container.Terminate(context.Background())
		if err != nil {
			t.Logf("Failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	pub, sub, err := kafka.CreateChannel(watermill.NopLogger{}, "flowdesk-test", brokers, false)
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, log.Discard())
	defer func() { _ = bus.Close() }()

	received := make(chan *events.WorkflowCreated, 1)

	require.NoError(t, bus.Handle(events.WorkflowCreatedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.WorkflowCreated)

		return nil
	}))

	// Publishing first creates the topic; the subscriber starts from the
	// oldest offset and still sees the message.
	sent := events.WorkflowCreated{
		BaseEvent: events.NewBaseEvent(events.WorkflowCreatedEvent, "wf-1", "ana@example.com"),
		Name:      "Invoices",
	}
	require.NoError(t, bus.Publish(ctx, "wf-1", sent))
	require.NoError(t, bus.Subscribe(ctx))

	select {
	case got := <-received:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, "Invoices", got.Name)
		assert.Equal(t, "ana@example.com", got.Actor)
	case <-ctx.Done():
		t.Fatal("timed out waiting for the event")
	}
}
