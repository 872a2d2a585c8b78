package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dukex/flowdesk/pkg/events"
)

type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	logger        *slog.Logger
	mu            sync.RWMutex
	subscriptions map[events.EventType][]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber, logger *slog.Logger) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		logger:        logger.With("module", "event_bus"),
		subscriptions: make(map[events.EventType][]EventHandler),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

// Subscribe starts dispatching messages to the registered handlers until
// ctx is cancelled or the bus is closed. Messages nobody handles and
// messages that cannot be decoded are acked and dropped; a handler failure
// nacks the message for redelivery.
func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eb.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (eb *WatermillEventBus) dispatch(ctx context.Context, msg *message.Message) {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	eb.mu.RLock()
	handlers := eb.subscriptions[eventType]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		msg.Ack()

		return
	}

	event, ok := newEvent(eventType)
	if !ok {
		eb.logger.WarnContext(ctx, "Unknown event type", "event_type", eventType)
		msg.Ack()

		return
	}

	err := json.Unmarshal(msg.Payload, event)
	if err != nil {
		eb.logger.ErrorContext(ctx, "Failed to decode event", "event_type", eventType, "error", err)
		msg.Ack()

		return
	}

	for _, handler := range handlers {
		err = handler(ctx, event)
		if err != nil {
			eb.logger.ErrorContext(ctx, "Event handler failed", "event_type", eventType, "error", err)
			msg.Nack()

			return
		}
	}

	msg.Ack()
}

func newEvent(eventType events.EventType) (any, bool) {
	switch eventType {
	case events.WorkflowCreatedEvent:
		return &events.WorkflowCreated{}, true
	case events.WorkflowSavedEvent:
		return &events.WorkflowSaved{}, true
	case events.WorkflowClonedEvent:
		return &events.WorkflowCloned{}, true
	case events.WorkflowImportedEvent:
		return &events.WorkflowImported{}, true
	case events.WorkflowDeletedEvent:
		return &events.WorkflowDeleted{}, true
	case events.WorkflowRestoredEvent:
		return &events.WorkflowRestored{}, true
	case events.WorkflowSharedEvent:
		return &events.WorkflowShared{}, true
	case events.WorkflowUnsharedEvent:
		return &events.WorkflowUnshared{}, true
	case events.TeamCreatedEvent:
		return &events.TeamCreated{}, true
	case events.TeamDeletedEvent:
		return &events.TeamDeleted{}, true
	case events.CommentAddedEvent:
		return &events.CommentAdded{}, true
	default:
		return nil, false
	}
}

// Handle registers handler for eventType. Several handlers may share a type;
// they run in registration order.
func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscriptions[eventType] = append(eb.subscriptions[eventType], handler)

	return nil
}

func (eb *WatermillEventBus) Close() error {
	err := eb.publisher.Close()
	if err != nil {
		return err
	}

	return eb.subscriber.Close()
}
