package workflow_test

import (
	"errors"
	"testing"

	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/mocks"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/memory"
	"github.com/dukex/flowdesk/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedger_AppendAndList(t *testing.T) {
	ledger := workflow.NewLedger(memory.NewStore(), log.Discard())
	ctx := t.Context()

	snapshot := &models.Workflow{ID: "wf-1", Name: "Demo", Version: 3}

	entry, err := ledger.Append(ctx, snapshot, "")
	require.NoError(t, err)
	assert.Equal(t, "Version 3", entry.Comment)
	assert.Equal(t, 3, entry.Version)

	_, err = ledger.Append(ctx, snapshot, "again")
	require.NoError(t, err)

	entries := ledger.List(ctx, "wf-1")
	require.Len(t, entries, 2)
	assert.Equal(t, "again", entries[1].Comment)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestLedger_ListDescending(t *testing.T) {
	ledger := workflow.NewLedger(memory.NewStore(), log.Discard())
	ctx := t.Context()

	for _, version := range []int{1, 3, 2} {
		_, err := ledger.Append(ctx, &models.Workflow{ID: "wf-1", Name: "Demo", Version: version}, "")
		require.NoError(t, err)
	}

	entries := ledger.ListDescending(ctx, "wf-1")
	require.Len(t, entries, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{entries[0].Version, entries[1].Version, entries[2].Version})
}

func TestLedger_GetByVersion(t *testing.T) {
	ledger := workflow.NewLedger(memory.NewStore(), log.Discard())
	ctx := t.Context()

	_, err := ledger.Append(ctx, &models.Workflow{ID: "wf-1", Name: "first", Version: 1}, "")
	require.NoError(t, err)
	_, err = ledger.Append(ctx, &models.Workflow{ID: "wf-1", Name: "second", Version: 1}, "")
	require.NoError(t, err)

	entry, err := ledger.GetByVersion(ctx, "wf-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "first", entry.Data.Name)

	_, err = ledger.GetByVersion(ctx, "wf-1", 2)
	assert.True(t, workflow.IsVersionNotFound(err))
}

func TestLedger_ReplaceAndRemove(t *testing.T) {
	store := memory.NewStore()
	ledger := workflow.NewLedger(store, log.Discard())
	ctx := t.Context()

	err := ledger.Replace(ctx, "wf-1", []models.WorkflowVersion{
		{ID: "ver-a", WorkflowID: "wf-1", Version: 1},
		{ID: "ver-b", WorkflowID: "wf-1", Version: 2},
	})
	require.NoError(t, err)
	assert.Len(t, ledger.List(ctx, "wf-1"), 2)

	require.NoError(t, ledger.Remove(ctx, "wf-1"))

	_, err = store.Get(ctx, persistence.VersionsKey("wf-1"))
	assert.True(t, persistence.IsKeyNotFound(err))
}

func TestLedger_AppendFailure(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("Get", mock.Anything, persistence.VersionsKey("wf-1")).Return([]byte("corrupt"), nil)
	store.On("Set", mock.Anything, persistence.VersionsKey("wf-1"), mock.Anything).Return(errors.New("read only"))

	ledger := workflow.NewLedger(store, log.Discard())

	entry, err := ledger.Append(t.Context(), &models.Workflow{ID: "wf-1", Name: "Demo"}, "")
	assert.Nil(t, entry)
	require.Error(t, err)

	var workflowErr *workflow.WorkflowError
	require.ErrorAs(t, err, &workflowErr)
	assert.Equal(t, "AppendVersion", workflowErr.Op)
}

func TestLedger_AppendKeepsHistoryOnReadFailure(t *testing.T) {
	outage := errors.New("connection refused")

	store := &mocks.MockStore{}
	store.On("Get", mock.Anything, persistence.VersionsKey("wf-1")).Return(nil, outage)

	ledger := workflow.NewLedger(store, log.Discard())

	entry, err := ledger.Append(t.Context(), &models.Workflow{ID: "wf-1", Name: "Demo", Version: 4}, "")
	assert.Nil(t, entry)
	require.ErrorIs(t, err, outage)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
