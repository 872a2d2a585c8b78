// Package team stores teams, their memberships and the workflows shared with
// them. Teams live under one key and shares under another; both collections
// are rewritten whole on every mutation.
package team

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

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
		logger: logger.With("module", "team_repository"),
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

// List returns every team. Unreadable data is logged and treated as empty.
func (r *Repository) List(ctx context.Context) []models.Team {
	return persistence.LoadCollectionOrEmpty[models.Team](ctx, r.logger, r.store, persistence.KeyTeams)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	teams := r.List(ctx)

	index := slices.IndexFunc(teams, func(t models.Team) bool { return t.ID == id })
	if index < 0 {
		return nil, newTeamError("GetByID", id, "", ErrTeamNotFound)
	}

	return &teams[index], nil
}

// GetTeamsForUser returns the teams the user owns or belongs to.
func (r *Repository) GetTeamsForUser(ctx context.Context, userID string) []models.Team {
	teams := r.List(ctx)

	return slices.DeleteFunc(teams, func(t models.Team) bool { return !t.HasMember(userID) })
}

// CreateTeam creates a team with its creator enrolled as owner.
func (r *Repository) CreateTeam(ctx context.Context, name, description, ownerID, ownerEmail string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	team := models.Team{
		ID:          ids.Team(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		OwnerID:     ownerID,
		Members: []models.TeamMember{
			{ID: ownerID, Email: ownerEmail, Role: models.RoleOwner, JoinedAt: now},
		},
	}

	teams, err := r.loadTeams(ctx)
	if err != nil {
		return nil, newTeamError("CreateTeam", team.ID, "", err)
	}

	teams = append(teams, team)

	err = r.saveTeams(ctx, teams)
	if err != nil {
		return nil, newTeamError("CreateTeam", team.ID, "", err)
	}

	return &team, nil
}

// Update writes the name and description of team over the stored record.
// Ownership and membership change only through the member operations.
func (r *Repository) Update(ctx context.Context, team *models.Team) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(ctx, "Update", team.ID, func(stored *models.Team) error {
		stored.Name = team.Name
		stored.Description = team.Description

		return nil
	})
}

// AddMember enrolls a member. An empty role defaults to viewer.
func (r *Repository) AddMember(ctx context.Context, teamID, memberID, email string, role models.Role) (*models.Team, error) {
	if role == "" {
		role = models.RoleViewer
	}

	if !role.Valid() {
		return nil, newTeamError("AddMember", teamID, memberID, ErrInvalidRole)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(ctx, "AddMember", teamID, func(team *models.Team) error {
		if _, exists := team.Member(memberID); exists {
			return newTeamError("AddMember", teamID, memberID, ErrMemberExists)
		}

		team.Members = append(team.Members, models.TeamMember{
			ID:       memberID,
			Email:    email,
			Role:     role,
			JoinedAt: r.now(),
		})

		return nil
	})
}

// RemoveMember drops a member from the team. The owner cannot be removed.
// Removing an id that is not a member leaves the roster unchanged.
func (r *Repository) RemoveMember(ctx context.Context, teamID, memberID string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(ctx, "RemoveMember", teamID, func(team *models.Team) error {
		if team.OwnerID == memberID {
			return newTeamError("RemoveMember", teamID, memberID, ErrCannotRemoveOwner)
		}

		team.Members = slices.DeleteFunc(team.Members, func(m models.TeamMember) bool { return m.ID == memberID })

		return nil
	})
}

// UpdateMemberRole changes a member's role. The owner's role is fixed to owner.
func (r *Repository) UpdateMemberRole(ctx context.Context, teamID, memberID string, role models.Role) (*models.Team, error) {
	if !role.Valid() {
		return nil, newTeamError("UpdateMemberRole", teamID, memberID, ErrInvalidRole)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(ctx, "UpdateMemberRole", teamID, func(team *models.Team) error {
		if team.OwnerID == memberID && role != models.RoleOwner {
			return newTeamError("UpdateMemberRole", teamID, memberID, ErrCannotChangeOwnerRole)
		}

		index := slices.IndexFunc(team.Members, func(m models.TeamMember) bool { return m.ID == memberID })
		if index < 0 {
			return newTeamError("UpdateMemberRole", teamID, memberID, ErrMemberNotFound)
		}

		team.Members[index].Role = role

		return nil
	})
}

// DeleteTeam removes the team and every share that references it. Deleting
// an unknown team still clears its shares.
func (r *Repository) DeleteTeam(ctx context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teams, err := r.loadTeams(ctx)
	if err != nil {
		return newTeamError("DeleteTeam", teamID, "", err)
	}

	shares, err := r.loadShares(ctx)
	if err != nil {
		return newTeamError("DeleteTeam", teamID, "", err)
	}

	teams = slices.DeleteFunc(teams, func(t models.Team) bool { return t.ID == teamID })

	err = r.saveTeams(ctx, teams)
	if err != nil {
		return newTeamError("DeleteTeam", teamID, "", err)
	}

	shares = slices.DeleteFunc(shares, func(s models.SharedWorkflow) bool { return s.TeamID == teamID })

	err = r.saveShares(ctx, shares)
	if err != nil {
		return newTeamError("DeleteTeam", teamID, "", err)
	}

	return nil
}

// update applies mutate to the stored team and writes the collection back.
// Callers hold r.mu.
func (r *Repository) update(ctx context.Context, op, teamID string, mutate func(*models.Team) error) (*models.Team, error) {
	teams, err := r.loadTeams(ctx)
	if err != nil {
		return nil, newTeamError(op, teamID, "", err)
	}

	index := slices.IndexFunc(teams, func(t models.Team) bool { return t.ID == teamID })
	if index < 0 {
		return nil, newTeamError(op, teamID, "", ErrTeamNotFound)
	}

	err = mutate(&teams[index])
	if err != nil {
		return nil, err
	}

	teams[index].ID = teamID
	teams[index].UpdatedAt = r.now()

	err = r.saveTeams(ctx, teams)
	if err != nil {
		return nil, newTeamError(op, teamID, "", err)
	}

	updated := teams[index]

	return &updated, nil
}

// loadTeams reads the collection ahead of a rewrite; backend failures are
// returned instead of degrading to empty.
func (r *Repository) loadTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := persistence.LoadCollectionForUpdate[models.Team](ctx, r.logger, r.store, persistence.KeyTeams)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error loading teams", "error", err)
	}

	return teams, err
}

func (r *Repository) saveTeams(ctx context.Context, teams []models.Team) error {
	err := persistence.SaveCollection(ctx, r.store, persistence.KeyTeams, teams)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error saving teams", "error", err)
	}

	return err
}
