package activity

import (
	"fmt"

	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
)

// FromEvent maps a decoded domain event to a feed entry.
func FromEvent(event any) (models.Activity, bool) {
	switch e := event.(type) {
	case *events.WorkflowCreated:
		return workflowEntry(e.BaseEvent, models.ActivityCreate, "Created workflow", e.Name), true
	case *events.WorkflowSaved:
		return workflowEntry(e.BaseEvent, models.ActivityEdit, fmt.Sprintf("Saved version %d", e.Version), e.Name), true
	case *events.WorkflowCloned:
		return workflowEntry(e.BaseEvent, models.ActivityCreate, "Cloned workflow", e.Name), true
	case *events.WorkflowImported:
		return workflowEntry(e.BaseEvent, models.ActivityCreate, "Imported workflow", e.Name), true
	case *events.WorkflowDeleted:
		return workflowEntry(e.BaseEvent, models.ActivityDelete, "Deleted workflow", e.Name), true
	case *events.WorkflowRestored:
		return workflowEntry(e.BaseEvent, models.ActivityEdit, fmt.Sprintf("Restored to version %d", e.Version), e.Name), true
	case *events.WorkflowShared:
		team := e.TeamName
		if team == "" {
			team = e.TeamID
		}

		description := fmt.Sprintf("Shared with team %s (%s)", team, e.Permissions)

		return workflowEntry(e.BaseEvent, models.ActivityShare, description, e.WorkflowID), true
	case *events.WorkflowUnshared:
		return workflowEntry(e.BaseEvent, models.ActivityShare, "Stopped sharing with team "+e.TeamID, e.WorkflowID), true
	case *events.TeamCreated:
		return teamEntry(e.BaseEvent, models.ActivityCreate, "Created team", e.Name, e.TeamID), true
	case *events.TeamDeleted:
		return teamEntry(e.BaseEvent, models.ActivityDelete, "Deleted team", e.TeamID, e.TeamID), true
	case *events.CommentAdded:
		description := "Commented on workflow"
		if e.ParentID != "" {
			description = "Replied to a comment"
		}

		return workflowEntry(e.BaseEvent, models.ActivityEdit, description, e.WorkflowID), true
	default:
		return models.Activity{}, false
	}
}

func workflowEntry(base events.BaseEvent, kind models.ActivityType, description, resource string) models.Activity {
	return models.Activity{
		Type:        kind,
		Description: description,
		Resource:    resource,
		ResourceID:  base.WorkflowID,
		Timestamp:   base.Timestamp,
	}
}

func teamEntry(base events.BaseEvent, kind models.ActivityType, description, resource, teamID string) models.Activity {
	return models.Activity{
		Type:        kind,
		Description: description,
		Resource:    resource,
		ResourceID:  teamID,
		Timestamp:   base.Timestamp,
	}
}
