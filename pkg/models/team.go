package models

import (
	"slices"
	"time"
)

// Role is a member's role inside a team.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return slices.Contains([]Role{RoleOwner, RoleAdmin, RoleEditor, RoleViewer}, r)
}

// Permission is the access level a team is granted on a shared workflow.
type Permission string

const (
	PermissionView   Permission = "view"
	PermissionEdit   Permission = "edit"
	PermissionManage Permission = "manage"
)

func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit || p == PermissionManage
}

type TeamMember struct {
	ID       string    `json:"id"       validate:"required"`
	Email    string    `json:"email"    validate:"required"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Team is a named group of members with roles, used to scope workflow sharing.
// The member whose id equals OwnerID is always present with RoleOwner.
type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"                  validate:"required"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	OwnerID     string       `json:"ownerId"`
	Members     []TeamMember `json:"members"`
}

// Member returns the member with the given id.
func (t *Team) Member(id string) (TeamMember, bool) {
	for _, member := range t.Members {
		if member.ID == id {
			return member, true
		}
	}

	return TeamMember{}, false
}

// HasMember reports whether the user owns or belongs to the team.
func (t *Team) HasMember(userID string) bool {
	if t.OwnerID == userID {
		return true
	}

	_, ok := t.Member(userID)

	return ok
}

// SharedWorkflow grants a team a permission level on a workflow. At most one
// exists per (WorkflowID, TeamID) pair.
type SharedWorkflow struct {
	ID          string     `json:"id"`
	WorkflowID  string     `json:"workflowId"`
	TeamID      string     `json:"teamId"`
	SharedAt    time.Time  `json:"sharedAt"`
	SharedBy    string     `json:"sharedBy"`
	Permissions Permission `json:"permissions"`
}
