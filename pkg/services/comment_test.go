package services_test

import (
	"testing"

	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComment_AddRequiresContentAndWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.comments.Add(ctx, "missing", "u1", "u1@example.com", "hello", "")
	assert.True(t, services.IsNotFoundError(err))

	wf, err := f.workflows.Create(ctx, sampleWorkflow())
	require.NoError(t, err)

	_, err = f.comments.Add(ctx, wf.ID, "u1", "u1@example.com", "   ", "")
	assert.ErrorIs(t, err, services.ErrCommentRequired)
}

func TestComment_Threads(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	wf, err := f.workflows.Create(ctx, sampleWorkflow())
	require.NoError(t, err)

	root, err := f.comments.Add(ctx, wf.ID, "u1", "u1@example.com", "Should this retry?", "")
	require.NoError(t, err)

	reply, err := f.comments.Add(ctx, wf.ID, "u2", "u2@example.com", "Yes, three times", root.ID)
	require.NoError(t, err)

	f.bus.AssertCalled(t, "Publish", mock.Anything, wf.ID, mock.MatchedBy(func(e events.CommentAdded) bool {
		return e.CommentID == reply.ID && e.ParentID == root.ID && e.Actor == "u2@example.com"
	}))

	threads, err := f.comments.Threads(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, root.ID, threads[0].Comment.ID)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, reply.ID, threads[0].Replies[0].ID)
}

func TestComment_EditResolveDelete(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	wf, err := f.workflows.Create(ctx, sampleWorkflow())
	require.NoError(t, err)

	added, err := f.comments.Add(ctx, wf.ID, "u1", "u1@example.com", "typo", "")
	require.NoError(t, err)

	_, err = f.comments.Update(ctx, wf.ID, added.ID, "")
	assert.True(t, services.IsValidationError(err))

	edited, err := f.comments.Update(ctx, wf.ID, added.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)
	assert.NotNil(t, edited.UpdatedAt)

	resolved, err := f.comments.ToggleResolved(ctx, wf.ID, added.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	require.NoError(t, f.comments.Delete(ctx, wf.ID, added.ID))

	listed, err := f.comments.List(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = f.comments.ToggleResolved(ctx, wf.ID, "gone")
	assert.True(t, services.IsNotFoundError(err))
}
