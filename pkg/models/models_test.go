package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_CloneIsDeep(t *testing.T) {
	original := &Workflow{
		ID:   "wf-1",
		Name: "Deep",
		Nodes: []Node{
			{ID: "n1", Type: NodeTypeAction, Data: map[string]any{
				"label":   "Send",
				"headers": map[string]any{"x": "1"},
				"list":    []any{"a", map[string]any{"b": 2}},
			}},
		},
		Edges:    []Edge{{ID: "e1", Source: "n1", Target: "n1", Data: map[string]any{"k": "v"}}},
		Triggers: []Trigger{{ID: "t1", Type: TriggerTypeWebhook, Config: map[string]any{"path": "/x"}}},
	}

	clone := original.Clone()
	require.NotNil(t, clone)

	clone.Nodes[0].Data["label"] = "changed"
	clone.Nodes[0].Data["headers"].(map[string]any)["x"] = "2"
	clone.Nodes[0].Data["list"].([]any)[1].(map[string]any)["b"] = 3
	clone.Edges[0].Data["k"] = "w"
	clone.Triggers[0].Config["path"] = "/y"
	clone.Nodes = append(clone.Nodes, Node{ID: "n2"})

	assert.Equal(t, "Send", original.Nodes[0].Data["label"])
	assert.Equal(t, "1", original.Nodes[0].Data["headers"].(map[string]any)["x"])
	assert.Equal(t, 2, original.Nodes[0].Data["list"].([]any)[1].(map[string]any)["b"])
	assert.Equal(t, "v", original.Edges[0].Data["k"])
	assert.Equal(t, "/x", original.Triggers[0].Config["path"])
	assert.Len(t, original.Nodes, 1)
}

func TestWorkflow_CloneNil(t *testing.T) {
	var w *Workflow
	assert.Nil(t, w.Clone())
}

func TestWorkflow_NormalizeSerializesEmptyArrays(t *testing.T) {
	w := &Workflow{ID: "wf", Name: "Empty"}
	w.Normalize()

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes":[]`)
	assert.Contains(t, string(data), `"edges":[]`)
	assert.NotContains(t, string(data), "parentId")
}

func TestTrigger_NextRun(t *testing.T) {
	reference := time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)

	hourly := Trigger{Type: TriggerTypeSchedule, Config: map[string]any{CronConfigKey: "0 * * * *"}}
	next, err := hourly.NextRun(reference)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), next)

	_, err = Trigger{Type: TriggerTypeSchedule}.NextRun(reference)
	assert.ErrorIs(t, err, ErrMissingCronExpression)

	invalid := Trigger{Type: TriggerTypeSchedule, Config: map[string]any{CronConfigKey: "every hour"}}
	_, err = invalid.NextRun(reference)
	assert.Error(t, err)
}

func TestTeam_Membership(t *testing.T) {
	team := &Team{
		OwnerID: "owner",
		Members: []TeamMember{{ID: "owner", Role: RoleOwner}, {ID: "bob", Role: RoleViewer}},
	}

	assert.True(t, team.HasMember("owner"))
	assert.True(t, team.HasMember("bob"))
	assert.False(t, team.HasMember("carol"))

	member, ok := team.Member("bob")
	assert.True(t, ok)
	assert.Equal(t, RoleViewer, member.Role)
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, RoleEditor.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.True(t, PermissionManage.Valid())
	assert.False(t, Permission("delete").Valid())
	assert.True(t, ThemeDark.Valid())
	assert.False(t, Theme("blue").Valid())
}
