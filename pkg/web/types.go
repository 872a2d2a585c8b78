// Package web provides the HTTP handlers of the workflow builder API.
package web

import "github.com/dukex/flowdesk/pkg/models"

// WorkflowRequest is the body of workflow create and update calls.
type WorkflowRequest struct {
	Name        string           `json:"name"                  validate:"required"`
	Description string           `json:"description,omitempty"`
	Nodes       []models.Node    `json:"nodes"`
	Edges       []models.Edge    `json:"edges"`
	Triggers    []models.Trigger `json:"triggers,omitempty"`
	// Comment labels the ledger entry of an update.
	Comment string `json:"comment,omitempty"`
}

func (r WorkflowRequest) toModel() *models.Workflow {
	return &models.Workflow{
		Name:        r.Name,
		Description: r.Description,
		Nodes:       r.Nodes,
		Edges:       r.Edges,
		Triggers:    r.Triggers,
	}
}

type CloneWorkflowRequest struct {
	Name string `json:"name,omitempty"`
}

type ShareWorkflowRequest struct {
	Permissions models.Permission `json:"permissions,omitempty" validate:"omitempty,oneof=view edit manage"`
}

type CommentRequest struct {
	Content  string `json:"content"            validate:"required"`
	ParentID string `json:"parentId,omitempty"`
}

type CreateTeamRequest struct {
	Name        string `json:"name"                  validate:"required"`
	Description string `json:"description,omitempty"`
}

type AddMemberRequest struct {
	ID    string      `json:"id"             validate:"required"`
	Email string      `json:"email"          validate:"required,email"`
	Role  models.Role `json:"role,omitempty" validate:"omitempty,oneof=owner admin editor viewer"`
}

type UpdateMemberRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=owner admin editor viewer"`
}

type SignInRequest struct {
	Email string `json:"email"          validate:"required,email"`
	Role  string `json:"role,omitempty"`
}

type ThemeRequest struct {
	Theme models.Theme `json:"theme" validate:"required,oneof=light dark"`
}
