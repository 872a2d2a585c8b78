package models

import "time"

// WorkflowComment is a comment on a workflow. ParentID points at the root of
// its thread; threads are one level deep by convention.
type WorkflowComment struct {
	ID         string     `json:"id"`
	WorkflowID string     `json:"workflowId"`
	UserID     string     `json:"userId"`
	UserEmail  string     `json:"userEmail"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	ParentID   string     `json:"parentId,omitempty"`
	Resolved   bool       `json:"resolved,omitempty"`
}

// CommentThread is a root comment with its direct replies.
type CommentThread struct {
	Comment WorkflowComment   `json:"comment"`
	Replies []WorkflowComment `json:"replies"`
}
