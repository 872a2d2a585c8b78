package events

import (
	"encoding/json"
	"testing"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	base := NewBaseEvent(WorkflowSavedEvent, "wf-1", "admin")

	assert.NotEmpty(t, base.ID)
	assert.Equal(t, WorkflowSavedEvent, base.Type)
	assert.Equal(t, "wf-1", base.WorkflowID)
	assert.Equal(t, "admin", base.Actor)
	assert.False(t, base.Timestamp.IsZero())

	assert.NotEqual(t, base.ID, NewBaseEvent(WorkflowSavedEvent, "wf-1", "admin").ID)
}

func TestEventTypes(t *testing.T) {
	tests := []struct {
		event    interface{ GetType() EventType }
		expected EventType
	}{
		{WorkflowCreated{}, "workflow.created"},
		{WorkflowSaved{}, "workflow.saved"},
		{WorkflowCloned{}, "workflow.cloned"},
		{WorkflowImported{}, "workflow.imported"},
		{WorkflowDeleted{}, "workflow.deleted"},
		{WorkflowRestored{}, "workflow.restored"},
		{WorkflowShared{}, "workflow.shared"},
		{WorkflowUnshared{}, "workflow.unshared"},
		{TeamCreated{}, "team.created"},
		{TeamDeleted{}, "team.deleted"},
		{CommentAdded{}, "comment.added"},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.GetType())
		})
	}
}

func TestWorkflowSharedJSON(t *testing.T) {
	event := WorkflowShared{
		BaseEvent:   NewBaseEvent(WorkflowSharedEvent, "wf-1", "u1"),
		TeamID:      "team-1",
		Permissions: models.PermissionEdit,
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "workflow.shared", decoded["type"])
	assert.Equal(t, "wf-1", decoded["workflow_id"])
	assert.Equal(t, "team-1", decoded["team_id"])
	assert.Equal(t, "edit", decoded["permissions"])
}
