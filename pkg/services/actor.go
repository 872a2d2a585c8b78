package services

import (
	"context"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/eventbus"
)

type actorKey struct{}

// WithActor attaches the acting user's identifier to ctx. Events published
// by the services carry it.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor attached by WithActor, or "" when none is.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)

	return actor
}

// publish sends event and logs a failure. Mutations already committed are
// not rolled back when the bus is unavailable.
func publish(ctx context.Context, logger *slog.Logger, publisher eventbus.EventPublisher, key string, event eventbus.Event) {
	if publisher == nil {
		return
	}

	err := publisher.Publish(ctx, key, event)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "event_type", event.GetType(), "key", key, "error", err)
	}
}
