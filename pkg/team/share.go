package team

import (
	"context"
	"fmt"
	"slices"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// GetSharedWorkflows returns every share record.
func (r *Repository) GetSharedWorkflows(ctx context.Context) []models.SharedWorkflow {
	return persistence.LoadCollectionOrEmpty[models.SharedWorkflow](ctx, r.logger, r.store, persistence.KeySharedWorkflows)
}

func (r *Repository) GetSharedWorkflowsForTeam(ctx context.Context, teamID string) []models.SharedWorkflow {
	return slices.DeleteFunc(r.GetSharedWorkflows(ctx), func(s models.SharedWorkflow) bool { return s.TeamID != teamID })
}

// GetTeamsForWorkflow returns the teams the workflow is shared with.
func (r *Repository) GetTeamsForWorkflow(ctx context.Context, workflowID string) []models.Team {
	teamIDs := map[string]struct{}{}

	for _, share := range r.GetSharedWorkflows(ctx) {
		if share.WorkflowID == workflowID {
			teamIDs[share.TeamID] = struct{}{}
		}
	}

	return slices.DeleteFunc(r.List(ctx), func(t models.Team) bool {
		_, shared := teamIDs[t.ID]

		return !shared
	})
}

// ShareWorkflow grants the team access to the workflow. Sharing the same pair
// again only updates the permissions of the existing record. An empty
// permission defaults to view.
func (r *Repository) ShareWorkflow(ctx context.Context, workflowID, teamID, userID string, permissions models.Permission) (*models.SharedWorkflow, error) {
	if permissions == "" {
		permissions = models.PermissionView
	}

	if !permissions.Valid() {
		return nil, newTeamError("ShareWorkflow", teamID, "", ErrInvalidPermission)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	shares, err := r.loadShares(ctx)
	if err != nil {
		return nil, newTeamError("ShareWorkflow", teamID, "", err)
	}

	var share models.SharedWorkflow

	index := slices.IndexFunc(shares, func(s models.SharedWorkflow) bool {
		return s.WorkflowID == workflowID && s.TeamID == teamID
	})
	if index >= 0 {
		shares[index].Permissions = permissions
		share = shares[index]
	} else {
		share = models.SharedWorkflow{
			ID:          ids.Share(),
			WorkflowID:  workflowID,
			TeamID:      teamID,
			SharedAt:    r.now(),
			SharedBy:    userID,
			Permissions: permissions,
		}
		shares = append(shares, share)
	}

	err = r.saveShares(ctx, shares)
	if err != nil {
		return nil, newTeamError("ShareWorkflow", teamID, "", err)
	}

	return &share, nil
}

// UnshareWorkflow removes the share record of the pair, if any.
func (r *Repository) UnshareWorkflow(ctx context.Context, workflowID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shares, err := r.loadShares(ctx)
	if err != nil {
		return newTeamError("UnshareWorkflow", teamID, "", err)
	}

	shares = slices.DeleteFunc(shares, func(s models.SharedWorkflow) bool {
		return s.WorkflowID == workflowID && s.TeamID == teamID
	})

	err = r.saveShares(ctx, shares)
	if err != nil {
		return newTeamError("UnshareWorkflow", teamID, "", err)
	}

	return nil
}

func (r *Repository) loadShares(ctx context.Context) ([]models.SharedWorkflow, error) {
	shares, err := persistence.LoadCollectionForUpdate[models.SharedWorkflow](ctx, r.logger, r.store, persistence.KeySharedWorkflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error loading shared workflows", "error", err)
	}

	return shares, err
}

func (r *Repository) saveShares(ctx context.Context, shares []models.SharedWorkflow) error {
	err := persistence.SaveCollection(ctx, r.store, persistence.KeySharedWorkflows, shares)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error saving shared workflows", "error", err)
	}

	return err
}

// RemoveSharesForWorkflow drops every share record of a workflow.
func (r *Repository) RemoveSharesForWorkflow(ctx context.Context, workflowID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shares, err := r.loadShares(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove shares of workflow %s: %w", workflowID, err)
	}

	shares = slices.DeleteFunc(shares, func(s models.SharedWorkflow) bool {
		return s.WorkflowID == workflowID
	})

	err = r.saveShares(ctx, shares)
	if err != nil {
		return fmt.Errorf("failed to remove shares of workflow %s: %w", workflowID, err)
	}

	return nil
}
