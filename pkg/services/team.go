package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/team"
	"github.com/dukex/flowdesk/pkg/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Team exposes team membership and workflow sharing.
type Team struct {
	repository *team.Repository
	workflows  *workflow.Repository
	publisher  eventbus.EventPublisher
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewTeam(
	repository *team.Repository,
	workflows *workflow.Repository,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Team {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Team{
		repository: repository,
		workflows:  workflows,
		publisher:  publisher,
		tracer:     tracer,
		logger:     logger.With("module", "team_service"),
	}
}

// List returns every team, or only the teams userID belongs to when it is set.
func (t *Team) List(ctx context.Context, userID string) []models.Team {
	if userID != "" {
		return t.repository.GetTeamsForUser(ctx, userID)
	}

	return t.repository.List(ctx)
}

func (t *Team) Get(ctx context.Context, id string) (*models.Team, error) {
	return t.repository.GetByID(ctx, id)
}

func (t *Team) Create(ctx context.Context, name, description, ownerID, ownerEmail string) (*models.Team, error) {
	ctx, span := otelhelper.StartSpan(ctx, t.tracer, "team.create")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("CreateTeam", "TEAM_NAME_REQUIRED", "team name is required", ErrTeamNameRequired)
	}

	if ownerID == "" || ownerEmail == "" {
		return nil, NewValidationError("CreateTeam", "OWNER_REQUIRED", "owner id and email are required", ErrInvalidRequest)
	}

	created, err := t.repository.CreateTeam(ctx, name, description, ownerID, ownerEmail)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.TeamIDKey, created.ID))

	publish(ctx, t.logger, t.publisher, created.ID, events.TeamCreated{
		BaseEvent: events.NewBaseEvent(events.TeamCreatedEvent, "", ActorFrom(ctx)),
		TeamID:    created.ID,
		Name:      created.Name,
	})

	return created, nil
}

// Update renames a team or changes its description.
func (t *Team) Update(ctx context.Context, id, name, description string) (*models.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("UpdateTeam", "TEAM_NAME_REQUIRED", "team name is required", ErrTeamNameRequired)
	}

	return t.repository.Update(ctx, &models.Team{ID: id, Name: name, Description: description})
}

func (t *Team) Delete(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, t.tracer, "team.delete", attribute.String(otelhelper.TeamIDKey, id))
	defer span.End()

	_, err := t.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = t.repository.DeleteTeam(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to delete team: %w", err)
	}

	publish(ctx, t.logger, t.publisher, id, events.TeamDeleted{
		BaseEvent: events.NewBaseEvent(events.TeamDeletedEvent, "", ActorFrom(ctx)),
		TeamID:    id,
	})

	return nil
}

func (t *Team) AddMember(ctx context.Context, teamID, memberID, email string, role models.Role) (*models.Team, error) {
	ctx, span := otelhelper.StartSpan(ctx, t.tracer, "team.add_member",
		attribute.String(otelhelper.TeamIDKey, teamID),
		attribute.String(otelhelper.MemberIDKey, memberID),
	)
	defer span.End()

	if memberID == "" || email == "" {
		return nil, NewValidationError("AddMember", "MEMBER_REQUIRED", "member id and email are required", ErrInvalidRequest)
	}

	return t.repository.AddMember(ctx, teamID, memberID, email, role)
}

func (t *Team) RemoveMember(ctx context.Context, teamID, memberID string) (*models.Team, error) {
	return t.repository.RemoveMember(ctx, teamID, memberID)
}

func (t *Team) UpdateMemberRole(ctx context.Context, teamID, memberID string, role models.Role) (*models.Team, error) {
	return t.repository.UpdateMemberRole(ctx, teamID, memberID, role)
}

// Share grants a team access to a workflow. Both must exist.
func (t *Team) Share(ctx context.Context, workflowID, teamID string, permissions models.Permission) (*models.SharedWorkflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, t.tracer, "team.share",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.TeamIDKey, teamID),
	)
	defer span.End()

	_, err := t.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	target, err := t.repository.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	share, err := t.repository.ShareWorkflow(ctx, workflowID, teamID, ActorFrom(ctx), permissions)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	publish(ctx, t.logger, t.publisher, workflowID, events.WorkflowShared{
		BaseEvent:   events.NewBaseEvent(events.WorkflowSharedEvent, workflowID, ActorFrom(ctx)),
		TeamID:      teamID,
		TeamName:    target.Name,
		Permissions: share.Permissions,
	})

	return share, nil
}

func (t *Team) Unshare(ctx context.Context, workflowID, teamID string) error {
	err := t.repository.UnshareWorkflow(ctx, workflowID, teamID)
	if err != nil {
		return err
	}

	publish(ctx, t.logger, t.publisher, workflowID, events.WorkflowUnshared{
		BaseEvent: events.NewBaseEvent(events.WorkflowUnsharedEvent, workflowID, ActorFrom(ctx)),
		TeamID:    teamID,
	})

	return nil
}

func (t *Team) SharedWorkflows(ctx context.Context, teamID string) ([]models.SharedWorkflow, error) {
	_, err := t.repository.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return t.repository.GetSharedWorkflowsForTeam(ctx, teamID), nil
}

func (t *Team) TeamsForWorkflow(ctx context.Context, workflowID string) []models.Team {
	return t.repository.GetTeamsForWorkflow(ctx, workflowID)
}
