package models

import "time"

// WorkflowVersion is one append-only ledger entry holding a full snapshot of
// a workflow at a given version.
type WorkflowVersion struct {
	ID         string    `json:"id"`
	WorkflowID string    `json:"workflowId"`
	Version    int       `json:"version"`
	Data       Workflow  `json:"data"`
	CreatedAt  time.Time `json:"createdAt"`
	CreatedBy  string    `json:"createdBy,omitempty"`
	Comment    string    `json:"comment,omitempty"`
}
