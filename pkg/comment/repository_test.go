package comment_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dukex/flowdesk/pkg/comment"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/mocks"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRepository_AddAndList(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := comment.NewRepository(memory.NewStore(), log.Discard(), comment.WithClock(func() time.Time { return now }))
	ctx := t.Context()

	root, err := repo.Add(ctx, "wf-1", "u1", "u1@example.com", "Looks good", "")
	require.NoError(t, err)
	assert.Contains(t, root.ID, "comment-")
	assert.Equal(t, now, root.CreatedAt)
	assert.Nil(t, root.UpdatedAt)

	reply, err := repo.Add(ctx, "wf-1", "u2", "u2@example.com", "Agreed", root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, reply.ParentID)

	orphan, err := repo.Add(ctx, "wf-1", "u2", "u2@example.com", "Who?", "comment-missing")
	require.NoError(t, err)
	assert.Equal(t, "comment-missing", orphan.ParentID)

	comments := repo.List(ctx, "wf-1")
	require.Len(t, comments, 3)
	assert.Equal(t, root.ID, comments[0].ID)

	assert.Empty(t, repo.List(ctx, "wf-2"))
}

func TestRepository_Update(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := comment.NewRepository(memory.NewStore(), log.Discard(), comment.WithClock(func() time.Time { return now }))
	ctx := t.Context()

	added, err := repo.Add(ctx, "wf-1", "u1", "u1@example.com", "draft", "")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "wf-1", added.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)

	_, err = repo.Update(ctx, "wf-1", "comment-missing", "x")
	assert.True(t, comment.IsCommentNotFound(err))
}

func TestRepository_ToggleResolved(t *testing.T) {
	repo := comment.NewRepository(memory.NewStore(), log.Discard())
	ctx := t.Context()

	added, err := repo.Add(ctx, "wf-1", "u1", "u1@example.com", "fix this", "")
	require.NoError(t, err)

	toggled, err := repo.ToggleResolved(ctx, "wf-1", added.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Resolved)
	assert.NotNil(t, toggled.UpdatedAt)

	toggled, err = repo.ToggleResolved(ctx, "wf-1", added.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Resolved)

	_, err = repo.ToggleResolved(ctx, "wf-2", added.ID)
	assert.ErrorIs(t, err, comment.ErrCommentNotFound)
}

func TestRepository_DeleteDoesNotCascade(t *testing.T) {
	repo := comment.NewRepository(memory.NewStore(), log.Discard())
	ctx := t.Context()

	root, err := repo.Add(ctx, "wf-1", "u1", "u1@example.com", "root", "")
	require.NoError(t, err)

	reply, err := repo.Add(ctx, "wf-1", "u2", "u2@example.com", "reply", root.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "wf-1", root.ID))

	comments := repo.List(ctx, "wf-1")
	require.Len(t, comments, 1)
	assert.Equal(t, reply.ID, comments[0].ID)
	assert.Equal(t, root.ID, comments[0].ParentID)

	threads := comment.Thread(comments)
	require.Len(t, threads, 1)
	assert.Equal(t, reply.ID, threads[0].Comment.ID)
}

func TestRepository_RemoveAll(t *testing.T) {
	store := memory.NewStore()
	repo := comment.NewRepository(store, log.Discard())
	ctx := t.Context()

	_, err := repo.Add(ctx, "wf-1", "u1", "u1@example.com", "hello", "")
	require.NoError(t, err)

	require.NoError(t, repo.RemoveAll(ctx, "wf-1"))

	_, err = store.Get(ctx, persistence.CommentsKey("wf-1"))
	assert.True(t, persistence.IsKeyNotFound(err))
}

func TestRepository_MutationsStopOnReadFailure(t *testing.T) {
	outage := errors.New("connection refused")

	store := &mocks.MockStore{}
	store.On("Get", mock.Anything, persistence.CommentsKey("wf-1")).Return(nil, outage)

	repo := comment.NewRepository(store, log.Discard())
	ctx := t.Context()

	_, err := repo.Add(ctx, "wf-1", "u1", "u1@example.com", "Hello", "")
	require.ErrorIs(t, err, outage)

	_, err = repo.ToggleResolved(ctx, "wf-1", "c1")
	require.ErrorIs(t, err, outage)

	require.ErrorIs(t, repo.Delete(ctx, "wf-1", "c1"), outage)

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
