package eventbus_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, log.Discard())
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.WorkflowSaved, 1)

	require.NoError(t, bus.Handle(events.WorkflowSavedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.WorkflowSaved)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	sent := events.WorkflowSaved{
		BaseEvent: events.NewBaseEvent(events.WorkflowSavedEvent, "wf-1", "admin"),
		Name:      "Demo",
		Version:   2,
	}
	require.NoError(t, bus.Publish(ctx, "wf-1", sent))

	select {
	case got := <-received:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, "wf-1", got.WorkflowID)
		assert.Equal(t, 2, got.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestWatermillEventBus_MultipleHandlers(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32

	done := make(chan struct{}, 2)

	for range 2 {
		require.NoError(t, bus.Handle(events.TeamCreatedEvent, func(context.Context, any) error {
			calls.Add(1)
			done <- struct{}{}

			return nil
		}))
	}

	require.NoError(t, bus.Subscribe(ctx))
	require.NoError(t, bus.Publish(ctx, "team-1", events.TeamCreated{
		BaseEvent: events.NewBaseEvent(events.TeamCreatedEvent, "", "u1"),
		TeamID:    "team-1",
	}))

	for range 2 {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("handler not called")
		}
	}

	assert.Equal(t, int32(2), calls.Load())
}

func TestWatermillEventBus_DropsUndecodableMessage(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, log.Discard())
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := make(chan string, 2)

	require.NoError(t, bus.Handle(events.CommentAddedEvent, func(_ context.Context, event any) error {
		delivered <- event.(*events.CommentAdded).CommentID

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	broken := message.NewMessage(watermill.NewULID(), []byte("{not json"))
	broken.Metadata.Set(events.EventTypeMetadataKey, string(events.CommentAddedEvent))
	require.NoError(t, pub.Publish(events.Topic, broken))

	require.NoError(t, bus.Publish(ctx, "wf-1", events.CommentAdded{
		BaseEvent: events.NewBaseEvent(events.CommentAddedEvent, "wf-1", "u1"),
		CommentID: "comment-1",
	}))

	select {
	case id := <-delivered:
		assert.Equal(t, "comment-1", id)
	case <-time.After(5 * time.Second):
		t.Fatal("valid event not delivered")
	}
}

func TestWatermillEventBus_HandlerErrorIsRedelivered(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts atomic.Int32

	done := make(chan struct{})

	require.NoError(t, bus.Handle(events.WorkflowDeletedEvent, func(context.Context, any) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}

		close(done)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))
	require.NoError(t, bus.Publish(ctx, "wf-1", events.WorkflowDeleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowDeletedEvent, "wf-1", ""),
	}))

	select {
	case <-done:
		assert.Equal(t, int32(2), attempts.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("event not redelivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newBus(t)

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}

var _ eventbus.EventBus = (*eventbus.WatermillEventBus)(nil)
