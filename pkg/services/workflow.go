package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/comment"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/team"
	"github.com/dukex/flowdesk/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Workflow struct {
	repository *workflow.Repository
	teams      *team.Repository
	comments   *comment.Repository
	publisher  eventbus.EventPublisher
	validator  *validator.Validate
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewWorkflow creates a new workflow service. A nil tracer disables tracing
// and a nil publisher disables events.
func NewWorkflow(
	repository *workflow.Repository,
	teams *team.Repository,
	comments *comment.Repository,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Workflow {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Workflow{
		repository: repository,
		teams:      teams,
		comments:   comments,
		publisher:  publisher,
		validator:  validator.New(),
		tracer:     tracer,
		logger:     logger.With("module", "workflow_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	err := w.repository.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (w *Workflow) List(ctx context.Context) []*models.Workflow {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.list")
	defer span.End()

	workflows := w.repository.List(ctx)
	span.SetAttributes(attribute.Int("flowdesk.workflow.count", len(workflows)))

	return workflows
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.fetch", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	return w.repository.GetByID(ctx, id)
}

// Create validates and stores a new workflow under a fresh id at version 1.
func (w *Workflow) Create(ctx context.Context, wf *models.Workflow) (*models.Workflow, error) {
	return w.create(ctx, wf, "")
}

// create labels the first ledger entry with comment; an empty comment yields
// "Version 1".
func (w *Workflow) create(ctx context.Context, wf *models.Workflow, comment string) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.create")
	defer span.End()

	err := validateWorkflow(w.validator, "Create", wf)
	if err != nil {
		return nil, err
	}

	input := wf.Clone()
	input.ID = ""
	input.Version = 0
	input.ParentID = ""

	created, err := w.repository.Save(ctx, input, comment)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.WorkflowIDKey, created.ID))

	publish(ctx, w.logger, w.publisher, created.ID, events.WorkflowCreated{
		BaseEvent: events.NewBaseEvent(events.WorkflowCreatedEvent, created.ID, ActorFrom(ctx)),
		Name:      created.Name,
	})

	return created, nil
}

// Update saves a new revision of an existing workflow. comment labels the
// ledger entry; an empty comment yields "Version N".
func (w *Workflow) Update(ctx context.Context, id string, wf *models.Workflow, comment string) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.update", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	_, err := w.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = validateWorkflow(w.validator, "Update", wf)
	if err != nil {
		return nil, err
	}

	input := wf.Clone()
	input.ID = id

	saved, err := w.repository.Save(ctx, input, comment)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	span.SetAttributes(attribute.Int(otelhelper.WorkflowVersionKey, saved.Version))

	publish(ctx, w.logger, w.publisher, saved.ID, events.WorkflowSaved{
		BaseEvent: events.NewBaseEvent(events.WorkflowSavedEvent, saved.ID, ActorFrom(ctx)),
		Name:      saved.Name,
		Version:   saved.Version,
		Comment:   comment,
	})

	return saved, nil
}

// Delete removes a workflow with its history, comments and shares.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.delete", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	existing, err := w.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = w.repository.Delete(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	err = w.comments.RemoveAll(ctx, id)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to remove comments of deleted workflow", "workflow_id", id, "error", err)
	}

	err = w.teams.RemoveSharesForWorkflow(ctx, id)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to remove shares of deleted workflow", "workflow_id", id, "error", err)
	}

	publish(ctx, w.logger, w.publisher, id, events.WorkflowDeleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowDeletedEvent, id, ActorFrom(ctx)),
		Name:      existing.Name,
	})

	return nil
}

func (w *Workflow) Clone(ctx context.Context, id, newName string) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.clone", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	cloned, err := w.repository.Clone(ctx, id, newName)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	publish(ctx, w.logger, w.publisher, cloned.ID, events.WorkflowCloned{
		BaseEvent:        events.NewBaseEvent(events.WorkflowClonedEvent, cloned.ID, ActorFrom(ctx)),
		Name:             cloned.Name,
		SourceWorkflowID: id,
	})

	return cloned, nil
}

func (w *Workflow) Export(ctx context.Context, id string, includeVersions bool) (string, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.export",
		attribute.String(otelhelper.WorkflowIDKey, id),
		attribute.Bool("flowdesk.export.versions", includeVersions),
	)
	defer span.End()

	return w.repository.Export(ctx, id, includeVersions)
}

func (w *Workflow) Import(ctx context.Context, data string) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.import")
	defer span.End()

	imported, err := w.repository.Import(ctx, data)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.WorkflowIDKey, imported.ID))

	publish(ctx, w.logger, w.publisher, imported.ID, events.WorkflowImported{
		BaseEvent: events.NewBaseEvent(events.WorkflowImportedEvent, imported.ID, ActorFrom(ctx)),
		Name:      imported.Name,
	})

	return imported, nil
}

// Versions lists the ledger of an existing workflow, newest first.
func (w *Workflow) Versions(ctx context.Context, id string) ([]models.WorkflowVersion, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.versions", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	_, err := w.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return w.repository.Ledger().ListDescending(ctx, id), nil
}

func (w *Workflow) Version(ctx context.Context, id string, version int) (*models.WorkflowVersion, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.version",
		attribute.String(otelhelper.WorkflowIDKey, id),
		attribute.Int(otelhelper.WorkflowVersionKey, version),
	)
	defer span.End()

	return w.repository.Ledger().GetByVersion(ctx, id, version)
}

func (w *Workflow) Restore(ctx context.Context, id string, version int) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.restore",
		attribute.String(otelhelper.WorkflowIDKey, id),
		attribute.Int(otelhelper.WorkflowVersionKey, version),
	)
	defer span.End()

	restored, err := w.repository.Restore(ctx, id, version)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	publish(ctx, w.logger, w.publisher, id, events.WorkflowRestored{
		BaseEvent: events.NewBaseEvent(events.WorkflowRestoredEvent, id, ActorFrom(ctx)),
		Name:      restored.Name,
		Version:   version,
	})

	return restored, nil
}
