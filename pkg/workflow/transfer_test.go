package workflow_test

import (
	"encoding/json"
	"testing"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ExportNotFound(t *testing.T) {
	repo, _ := newRepository(t)

	exported, err := repo.Export(t.Context(), "wf-missing", false)
	assert.Empty(t, exported)
	assert.True(t, workflow.IsWorkflowNotFound(err))
}

func TestRepository_ExportShape(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := t.Context()

	saved, err := repo.Save(ctx, sampleWorkflow(), "")
	require.NoError(t, err)

	tests := []struct {
		name            string
		includeVersions bool
	}{
		{name: "workflow only", includeVersions: false},
		{name: "with versions", includeVersions: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exported, err := repo.Export(ctx, saved.ID, tt.includeVersions)
			require.NoError(t, err)
			assert.Contains(t, exported, "\n  \"workflow\"")

			var document map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(exported), &document))

			var got models.Workflow
			require.NoError(t, json.Unmarshal(document["workflow"], &got))
			assert.Equal(t, saved.ID, got.ID)

			_, hasVersions := document["versions"]
			assert.Equal(t, tt.includeVersions, hasVersions)
		})
	}
}

func TestRepository_ImportInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{oops"},
		{name: "no workflow", data: `{"versions": []}`},
		{name: "workflow not an object", data: `{"workflow": "x"}`},
		{name: "missing nodes", data: `{"workflow": {"name": "A", "edges": []}}`},
		{name: "edge without target", data: `{"workflow": {"name": "A", "nodes": [{"id": "n1"}], "edges": [{"source": "n1"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newRepository(t)

			imported, err := repo.Import(t.Context(), tt.data)
			assert.Nil(t, imported)
			assert.True(t, workflow.IsInvalidImport(err))
			assert.Empty(t, repo.List(t.Context()))
		})
	}
}

func TestRepository_ImportDanglingEdge(t *testing.T) {
	repo, _ := newRepository(t)

	data := `{"workflow": {"name": "A", "nodes": [{"id": "n1", "type": "trigger"}], "edges": [{"id": "e1", "source": "n1", "target": "n9"}]}}`

	imported, err := repo.Import(t.Context(), data)
	assert.Nil(t, imported)
	assert.True(t, workflow.IsDanglingEdge(err))
	assert.Empty(t, repo.List(t.Context()))
}

func TestRepository_ImportWithoutVersions(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := t.Context()

	data := `{"workflow": {"id": "wf-old", "name": "A", "version": 7, "nodes": [{"id": "n1", "type": "trigger"}, {"id": "n2", "type": "action"}], "edges": [{"id": "e1", "source": "n1", "target": "n2", "sourceHandle": "true"}]}}`

	imported, err := repo.Import(ctx, data)
	require.NoError(t, err)

	assert.NotEqual(t, "wf-old", imported.ID)
	assert.Equal(t, "A (Imported)", imported.Name)
	assert.Equal(t, 1, imported.Version)
	assert.NotNil(t, imported.Triggers)
	assert.Empty(t, imported.ParentID)
	require.Len(t, imported.Edges, 1)
	assert.Equal(t, "true", imported.Edges[0].SourceHandle)
	assert.Contains(t, imported.NodeIDs(), imported.Edges[0].Source)
	assert.Contains(t, imported.NodeIDs(), imported.Edges[0].Target)

	entries := repo.Ledger().List(ctx, imported.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "Imported workflow", entries[0].Comment)
}

func TestRepository_ImportEmptyVersionsReplacesLedger(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := t.Context()

	imported, err := repo.Import(ctx, `{"workflow": {"name": "A", "nodes": [], "edges": []}, "versions": []}`)
	require.NoError(t, err)

	assert.Empty(t, repo.Ledger().List(ctx, imported.ID))
}
