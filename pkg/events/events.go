// Package events defines the domain events published when workflows, teams
// and comments change.
package events

import (
	"time"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every domain event.
const Topic = "flowdesk.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Workflow lifecycle events.
	WorkflowCreatedEvent  EventType = "workflow.created"
	WorkflowSavedEvent    EventType = "workflow.saved"
	WorkflowClonedEvent   EventType = "workflow.cloned"
	WorkflowImportedEvent EventType = "workflow.imported"
	WorkflowDeletedEvent  EventType = "workflow.deleted"
	WorkflowRestoredEvent EventType = "workflow.restored"

	// Sharing events.
	WorkflowSharedEvent   EventType = "workflow.shared"
	WorkflowUnsharedEvent EventType = "workflow.unshared"

	// Team events.
	TeamCreatedEvent EventType = "team.created"
	TeamDeletedEvent EventType = "team.deleted"

	CommentAddedEvent EventType = "comment.added"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event of the given type.
func NewBaseEvent(eventType EventType, workflowID, actor string) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Actor:      actor,
	}
}

type WorkflowCreated struct {
	BaseEvent

	Name string `json:"name"`
}

func (w WorkflowCreated) GetType() EventType {
	return WorkflowCreatedEvent
}

type WorkflowSaved struct {
	BaseEvent

	Name    string `json:"name"`
	Version int    `json:"version"`
	Comment string `json:"comment,omitempty"`
}

func (w WorkflowSaved) GetType() EventType {
	return WorkflowSavedEvent
}

type WorkflowCloned struct {
	BaseEvent

	Name             string `json:"name"`
	SourceWorkflowID string `json:"source_workflow_id"`
}

func (w WorkflowCloned) GetType() EventType {
	return WorkflowClonedEvent
}

type WorkflowImported struct {
	BaseEvent

	Name string `json:"name"`
}

func (w WorkflowImported) GetType() EventType {
	return WorkflowImportedEvent
}

type WorkflowDeleted struct {
	BaseEvent

	Name string `json:"name"`
}

func (w WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedEvent
}

type WorkflowRestored struct {
	BaseEvent

	Name    string `json:"name"`
	Version int    `json:"version"`
}

func (w WorkflowRestored) GetType() EventType {
	return WorkflowRestoredEvent
}

type WorkflowShared struct {
	BaseEvent

	TeamID      string            `json:"team_id"`
	TeamName    string            `json:"team_name,omitempty"`
	Permissions models.Permission `json:"permissions"`
}

func (w WorkflowShared) GetType() EventType {
	return WorkflowSharedEvent
}

type WorkflowUnshared struct {
	BaseEvent

	TeamID string `json:"team_id"`
}

func (w WorkflowUnshared) GetType() EventType {
	return WorkflowUnsharedEvent
}

type TeamCreated struct {
	BaseEvent

	TeamID string `json:"team_id"`
	Name   string `json:"name"`
}

func (t TeamCreated) GetType() EventType {
	return TeamCreatedEvent
}

type TeamDeleted struct {
	BaseEvent

	TeamID string `json:"team_id"`
}

func (t TeamDeleted) GetType() EventType {
	return TeamDeletedEvent
}

type CommentAdded struct {
	BaseEvent

	CommentID string `json:"comment_id"`
	ParentID  string `json:"parent_id,omitempty"`
}

func (c CommentAdded) GetType() EventType {
	return CommentAddedEvent
}
