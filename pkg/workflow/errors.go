package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrVersionNotFound indicates the ledger holds no entry for the requested version.
	ErrVersionNotFound = errors.New("workflow version not found")

	// ErrDanglingEdge indicates an edge references a node id absent from the graph.
	ErrDanglingEdge = errors.New("edge references unknown node")

	// ErrInvalidImport indicates an import payload failed to parse or validate.
	ErrInvalidImport = errors.New("invalid workflow data")
)

// WorkflowError wraps workflow-related errors with additional context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Save", "Clone")
	WorkflowID string // Workflow ID if applicable
	Version    int    // Ledger version if applicable
	Message    string // Additional context message
	Err        error  // Underlying error
}

func (e *WorkflowError) Error() string {
	target := e.WorkflowID
	if e.Version > 0 {
		target = fmt.Sprintf("%s version %d", e.WorkflowID, e.Version)
	}

	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for workflow %s: %s (%v)", e.Op, target, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, target, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for workflow errors.
func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{
		Op:         op,
		WorkflowID: workflowID,
		Err:        err,
	}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsVersionNotFound checks if an error indicates a ledger version was not found.
func IsVersionNotFound(err error) bool {
	return errors.Is(err, ErrVersionNotFound)
}

// IsDanglingEdge checks if an error reports an edge with an unknown endpoint.
func IsDanglingEdge(err error) bool {
	return errors.Is(err, ErrDanglingEdge)
}

// IsInvalidImport checks if an error reports a malformed import payload.
func IsInvalidImport(err error) bool {
	return errors.Is(err, ErrInvalidImport)
}
