// Package comment stores threaded comments per workflow under one key per
// workflow.
package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

var ErrCommentNotFound = errors.New("comment not found")

func IsCommentNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound)
}

type Repository struct {
	mu     sync.Mutex
	store  persistence.Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func NewRepository(store persistence.Store, logger *slog.Logger, opts ...Option) *Repository {
	repo := &Repository{
		store:  store,
		logger: logger.With("module", "comment_repository"),
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

// List returns the comments of a workflow in insertion order.
func (r *Repository) List(ctx context.Context, workflowID string) []models.WorkflowComment {
	return persistence.LoadCollectionOrEmpty[models.WorkflowComment](ctx, r.logger, r.store, persistence.CommentsKey(workflowID))
}

// Add appends a comment. parentID is stored as given; it is not checked
// against existing comments.
func (r *Repository) Add(ctx context.Context, workflowID, userID, userEmail, content, parentID string) (*models.WorkflowComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment := models.WorkflowComment{
		ID:         ids.Comment(),
		WorkflowID: workflowID,
		UserID:     userID,
		UserEmail:  userEmail,
		Content:    content,
		CreatedAt:  r.now(),
		ParentID:   parentID,
	}

	comments, err := r.load(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	comments = append(comments, comment)

	err = r.save(ctx, workflowID, comments)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// Update replaces the content of a comment and stamps UpdatedAt.
func (r *Repository) Update(ctx context.Context, workflowID, commentID, content string) (*models.WorkflowComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.mutate(ctx, workflowID, commentID, func(c *models.WorkflowComment) {
		c.Content = content
	})
}

// ToggleResolved flips the resolved flag of a comment and stamps UpdatedAt.
func (r *Repository) ToggleResolved(ctx context.Context, workflowID, commentID string) (*models.WorkflowComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.mutate(ctx, workflowID, commentID, func(c *models.WorkflowComment) {
		c.Resolved = !c.Resolved
	})
}

// Delete removes one comment. Replies to it stay in place.
func (r *Repository) Delete(ctx context.Context, workflowID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comments, err := r.load(ctx, workflowID)
	if err != nil {
		return err
	}

	comments = slices.DeleteFunc(comments, func(c models.WorkflowComment) bool { return c.ID == commentID })

	return r.save(ctx, workflowID, comments)
}

// RemoveAll deletes every comment of a workflow.
func (r *Repository) RemoveAll(ctx context.Context, workflowID string) error {
	err := r.store.Remove(ctx, persistence.CommentsKey(workflowID))
	if err != nil {
		return fmt.Errorf("failed to remove comments of workflow %s: %w", workflowID, err)
	}

	return nil
}

func (r *Repository) mutate(ctx context.Context, workflowID, commentID string, apply func(*models.WorkflowComment)) (*models.WorkflowComment, error) {
	comments, err := r.load(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	index := slices.IndexFunc(comments, func(c models.WorkflowComment) bool { return c.ID == commentID })
	if index < 0 {
		return nil, fmt.Errorf("comment %s of workflow %s: %w", commentID, workflowID, ErrCommentNotFound)
	}

	now := r.now()
	apply(&comments[index])
	comments[index].UpdatedAt = &now

	err = r.save(ctx, workflowID, comments)
	if err != nil {
		return nil, err
	}

	updated := comments[index]

	return &updated, nil
}

func (r *Repository) load(ctx context.Context, workflowID string) ([]models.WorkflowComment, error) {
	comments, err := persistence.LoadCollectionForUpdate[models.WorkflowComment](ctx, r.logger, r.store, persistence.CommentsKey(workflowID))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error loading workflow comments", "workflow_id", workflowID, "error", err)

		return nil, fmt.Errorf("failed to load comments of workflow %s: %w", workflowID, err)
	}

	return comments, nil
}

func (r *Repository) save(ctx context.Context, workflowID string, comments []models.WorkflowComment) error {
	err := persistence.SaveCollection(ctx, r.store, persistence.CommentsKey(workflowID), comments)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error saving workflow comments", "workflow_id", workflowID, "error", err)

		return fmt.Errorf("failed to save comments of workflow %s: %w", workflowID, err)
	}

	return nil
}
