package persistence_test

import (
	"errors"
	"testing"

	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/mocks"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID string `json:"id"`
}

func TestLoadCollection_AbsentKeyIsEmpty(t *testing.T) {
	store := memory.NewStore()

	items, err := persistence.LoadCollection[record](t.Context(), store, "records")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoadCollection_CorruptValueReturnsDecodeError(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Set(t.Context(), "records", []byte("{not json")))

	items, err := persistence.LoadCollection[record](t.Context(), store, "records")
	require.Error(t, err)
	assert.Empty(t, items)
	assert.True(t, persistence.IsDecodeError(err))

	var decodeErr *persistence.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "records", decodeErr.Key)
}

func TestLoadCollectionOrEmpty_Degrades(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Set(t.Context(), "records", []byte("garbage")))

	items := persistence.LoadCollectionOrEmpty[record](t.Context(), log.Discard(), store, "records")
	assert.Empty(t, items)
}

func TestLoadCollectionForUpdate(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()

	items, err := persistence.LoadCollectionForUpdate[record](ctx, log.Discard(), store, "records")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Set(ctx, "records", []byte("garbage")))

	items, err = persistence.LoadCollectionForUpdate[record](ctx, log.Discard(), store, "records")
	require.NoError(t, err)
	assert.Empty(t, items)

	outage := errors.New("connection refused")
	failing := &mocks.MockStore{}
	failing.On("Get", mock.Anything, "records").Return(nil, outage)

	items, err = persistence.LoadCollectionForUpdate[record](ctx, log.Discard(), failing, "records")
	assert.Nil(t, items)
	require.ErrorIs(t, err, outage)

	var storeErr *persistence.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "records", storeErr.Key)
}

func TestSaveCollection_RoundTrip(t *testing.T) {
	store := memory.NewStore()
	ctx := t.Context()

	require.NoError(t, persistence.SaveCollection(ctx, store, "records", []record{{ID: "a"}, {ID: "b"}}))

	items, err := persistence.LoadCollection[record](ctx, store, "records")
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: "a"}, {ID: "b"}}, items)

	require.NoError(t, persistence.SaveCollection[record](ctx, store, "empty", nil))

	raw, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLoadValue(t *testing.T) {
	store := memory.NewStore()
	ctx := t.Context()

	var out record
	err := persistence.LoadValue(ctx, store, "one", &out)
	assert.True(t, persistence.IsKeyNotFound(err))

	require.NoError(t, persistence.SaveValue(ctx, store, "one", record{ID: "x"}))
	require.NoError(t, persistence.LoadValue(ctx, store, "one", &out))
	assert.Equal(t, "x", out.ID)

	require.NoError(t, store.Set(ctx, "bad", []byte("nope")))
	err = persistence.LoadValue(ctx, store, "bad", &out)
	assert.True(t, persistence.IsDecodeError(err))
}

func TestStoreError_Is(t *testing.T) {
	err := persistence.NewStoreError("Get", "k", persistence.ErrKeyNotFound)
	assert.True(t, persistence.IsKeyNotFound(err))
	assert.Contains(t, err.Error(), "Get operation failed for key k")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "workflow_versions_wf-1", persistence.VersionsKey("wf-1"))
	assert.Equal(t, "workflow_comments_wf-1", persistence.CommentsKey("wf-1"))
}
