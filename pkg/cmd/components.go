package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/activity"
	"github.com/dukex/flowdesk/pkg/comment"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/session"
	"github.com/dukex/flowdesk/pkg/team"
	"github.com/dukex/flowdesk/pkg/template"
	"github.com/dukex/flowdesk/pkg/workflow"
	"go.opentelemetry.io/otel/trace"
)

// Components is the repository and service graph shared by the binaries.
type Components struct {
	Store    persistence.Store
	EventBus eventbus.EventBus

	WorkflowRepository *workflow.Repository
	TeamRepository     *team.Repository
	CommentRepository  *comment.Repository

	Workflows *services.Workflow
	Teams     *services.Team
	Comments  *services.Comment
	Templates *services.Template
	Session   *session.Session
	Activity  *activity.Recorder
}

// NewComponents builds the graph over store and bus, registers the activity
// recorder and starts consuming events until ctx is done.
func NewComponents(ctx context.Context, logger *slog.Logger, store persistence.Store, bus eventbus.EventBus, tracer trace.Tracer) (*Components, error) {
	workflows := workflow.NewRepository(store, logger)
	teams := team.NewRepository(store, logger)
	comments := comment.NewRepository(store, logger)
	recorder := activity.NewRecorder(store, logger)

	catalog, err := template.NewCatalog()
	if err != nil {
		return nil, err
	}

	err = recorder.Register(bus)
	if err != nil {
		return nil, err
	}

	err = bus.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	workflowService := services.NewWorkflow(workflows, teams, comments, bus, tracer, logger)

	return &Components{
		Store:              store,
		EventBus:           bus,
		WorkflowRepository: workflows,
		TeamRepository:     teams,
		CommentRepository:  comments,
		Workflows:          workflowService,
		Teams:              services.NewTeam(teams, workflows, bus, tracer, logger),
		Comments:           services.NewComment(comments, workflows, bus, tracer, logger),
		Templates:          services.NewTemplate(catalog, workflowService, tracer, logger),
		Session:            session.New(store, workflows, logger),
		Activity:           recorder,
	}, nil
}

// Close releases the event bus and the store.
func (c *Components) Close(ctx context.Context) error {
	busErr := c.EventBus.Close()
	if busErr != nil {
		busErr = fmt.Errorf("failed to close event bus: %w", busErr)
	}

	storeErr := c.Store.Close(ctx)
	if storeErr != nil {
		storeErr = fmt.Errorf("failed to close persistence: %w", storeErr)
	}

	return errors.Join(busErr, storeErr)
}
