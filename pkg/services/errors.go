// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/flowdesk/pkg/comment"
	"github.com/dukex/flowdesk/pkg/team"
	"github.com/dukex/flowdesk/pkg/template"
	"github.com/dukex/flowdesk/pkg/workflow"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest        = errors.New("invalid request")
	ErrWorkflowNil           = errors.New("workflow cannot be nil")
	ErrWorkflowNameRequired  = errors.New("workflow name is required")
	ErrInvalidNode           = errors.New("invalid workflow node")
	ErrDuplicateNodeID       = errors.New("duplicate node id")
	ErrInvalidEdge           = errors.New("edge references unknown node")
	ErrInvalidTrigger        = errors.New("invalid workflow trigger")
	ErrInvalidCronExpression = errors.New("invalid cron expression")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrCommentRequired       = errors.New("comment content is required")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrInvalidNode) ||
		errors.Is(err, ErrDuplicateNodeID) ||
		errors.Is(err, ErrInvalidEdge) ||
		errors.Is(err, ErrInvalidTrigger) ||
		errors.Is(err, ErrInvalidCronExpression) ||
		errors.Is(err, ErrTeamNameRequired) ||
		errors.Is(err, ErrCommentRequired) ||
		workflow.IsInvalidImport(err) ||
		workflow.IsDanglingEdge(err) ||
		team.IsInvalidInput(err)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return team.IsConflict(err)
}

// IsNotFoundError checks if an error names a missing resource (HTTP 404).
func IsNotFoundError(err error) bool {
	return workflow.IsWorkflowNotFound(err) ||
		workflow.IsVersionNotFound(err) ||
		team.IsTeamNotFound(err) ||
		errors.Is(err, team.ErrMemberNotFound) ||
		comment.IsCommentNotFound(err) ||
		errors.Is(err, template.ErrTemplateNotFound)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
