package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukex/flowdesk/pkg/comment"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Comment struct {
	repository *comment.Repository
	workflows  *workflow.Repository
	publisher  eventbus.EventPublisher
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewComment(
	repository *comment.Repository,
	workflows *workflow.Repository,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Comment {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Comment{
		repository: repository,
		workflows:  workflows,
		publisher:  publisher,
		tracer:     tracer,
		logger:     logger.With("module", "comment_service"),
	}
}

func (c *Comment) List(ctx context.Context, workflowID string) ([]models.WorkflowComment, error) {
	_, err := c.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return c.repository.List(ctx, workflowID), nil
}

// Threads groups a workflow's comments under their root comments.
func (c *Comment) Threads(ctx context.Context, workflowID string) ([]models.CommentThread, error) {
	comments, err := c.List(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return comment.Thread(comments), nil
}

func (c *Comment) Add(ctx context.Context, workflowID, userID, userEmail, content, parentID string) (*models.WorkflowComment, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "comment.add", attribute.String(otelhelper.WorkflowIDKey, workflowID))
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("AddComment", "COMMENT_REQUIRED", "comment content is required", ErrCommentRequired)
	}

	_, err := c.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	added, err := c.repository.Add(ctx, workflowID, userID, userEmail, content, parentID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.CommentIDKey, added.ID))

	actor := ActorFrom(ctx)
	if actor == "" {
		actor = userEmail
	}

	publish(ctx, c.logger, c.publisher, workflowID, events.CommentAdded{
		BaseEvent: events.NewBaseEvent(events.CommentAddedEvent, workflowID, actor),
		CommentID: added.ID,
		ParentID:  parentID,
	})

	return added, nil
}

func (c *Comment) Update(ctx context.Context, workflowID, commentID, content string) (*models.WorkflowComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("UpdateComment", "COMMENT_REQUIRED", "comment content is required", ErrCommentRequired)
	}

	return c.repository.Update(ctx, workflowID, commentID, content)
}

func (c *Comment) ToggleResolved(ctx context.Context, workflowID, commentID string) (*models.WorkflowComment, error) {
	return c.repository.ToggleResolved(ctx, workflowID, commentID)
}

func (c *Comment) Delete(ctx context.Context, workflowID, commentID string) error {
	return c.repository.Delete(ctx, workflowID, commentID)
}
