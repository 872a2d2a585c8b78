// Package eventbus carries workflow, team and comment events between the
// services that emit them and the handlers that react to them.
package eventbus

import (
	"context"

	"github.com/dukex/flowdesk/pkg/events"
)

// Event is anything with a routable type. Every struct in pkg/events
// satisfies it.
type Event interface {
	GetType() events.EventType
}

// EventPublisher sends an event keyed by the entity it concerns, usually a
// workflow or team ID.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber registers per-type handlers and then starts consuming.
// Handle must be called before Subscribe.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives a pointer to the decoded event struct, e.g.
// *events.WorkflowSaved. A returned error nacks the message so the transport
// may redeliver it.
type EventHandler func(ctx context.Context, event any) error

// EventBus is the full publish/subscribe surface used by the binaries.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
