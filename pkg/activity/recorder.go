// Package activity turns domain events into the user-facing activity feed.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// MaxEntries bounds the stored feed. Older entries are dropped first.
const MaxEntries = 100

type Recorder struct {
	mu     sync.Mutex
	store  persistence.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(store persistence.Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.With("module", "activity_recorder"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register subscribes the recorder to every event it translates.
func (r *Recorder) Register(bus eventbus.EventSubscriber) error {
	for _, eventType := range []events.EventType{
		events.WorkflowCreatedEvent,
		events.WorkflowSavedEvent,
		events.WorkflowClonedEvent,
		events.WorkflowImportedEvent,
		events.WorkflowDeletedEvent,
		events.WorkflowRestoredEvent,
		events.WorkflowSharedEvent,
		events.WorkflowUnsharedEvent,
		events.TeamCreatedEvent,
		events.TeamDeletedEvent,
		events.CommentAddedEvent,
	} {
		err := bus.Handle(eventType, r.handle)
		if err != nil {
			return fmt.Errorf("failed to register activity handler for %s: %w", eventType, err)
		}
	}

	return nil
}

// handle never fails: a feed entry that cannot be stored is logged and lost
// rather than redelivered.
func (r *Recorder) handle(ctx context.Context, event any) error {
	entry, ok := FromEvent(event)
	if !ok {
		r.logger.DebugContext(ctx, "Ignoring event without activity mapping", "event", fmt.Sprintf("%T", event))

		return nil
	}

	err := r.Record(ctx, entry)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to record activity", "type", entry.Type, "resource_id", entry.ResourceID, "error", err)
	}

	return nil
}

// Record prepends entry to the feed, filling in its id and timestamp when
// they are empty.
func (r *Recorder) Record(ctx context.Context, entry models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = ids.Activity()
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}

	feed, err := persistence.LoadCollectionForUpdate[models.Activity](ctx, r.logger, r.store, persistence.KeyActivity)
	if err != nil {
		return err
	}

	feed = append([]models.Activity{entry}, feed...)

	if len(feed) > MaxEntries {
		feed = feed[:MaxEntries]
	}

	return persistence.SaveCollection(ctx, r.store, persistence.KeyActivity, feed)
}

// Feed returns the stored entries newest first. An empty filter returns all
// of them.
func (r *Recorder) Feed(ctx context.Context, filter models.ActivityType) []models.Activity {
	feed := persistence.LoadCollectionOrEmpty[models.Activity](ctx, r.logger, r.store, persistence.KeyActivity)
	if filter == "" {
		return feed
	}

	filtered := []models.Activity{}

	for _, entry := range feed {
		if entry.Type == filter {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}

// Clear removes the whole feed.
func (r *Recorder) Clear(ctx context.Context) error {
	return r.store.Remove(ctx, persistence.KeyActivity)
}
