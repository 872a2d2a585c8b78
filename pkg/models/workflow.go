// Package models defines the persisted records of the workflow builder:
// workflows and their version snapshots, teams, shares, comments and
// session state.
package models

import "time"

// Workflow is a named directed graph of nodes and edges representing an automation.
type Workflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"                  validate:"required"`
	Description string    `json:"description,omitempty"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	Triggers    []Trigger `json:"triggers,omitempty"`
	Version     int       `json:"version,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the workflow. Node and edge payload maps are
// copied recursively so the result never aliases the receiver.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	out := *w
	out.Nodes = make([]Node, len(w.Nodes))

	for i, node := range w.Nodes {
		out.Nodes[i] = node.Clone()
	}

	out.Edges = make([]Edge, len(w.Edges))

	for i, edge := range w.Edges {
		out.Edges[i] = edge.Clone()
	}

	if w.Triggers != nil {
		out.Triggers = make([]Trigger, len(w.Triggers))

		for i, trigger := range w.Triggers {
			out.Triggers[i] = trigger.Clone()
		}
	}

	return &out
}

// Normalize replaces nil node and edge slices with empty ones so the record
// always serializes them as arrays.
func (w *Workflow) Normalize() {
	if w.Nodes == nil {
		w.Nodes = []Node{}
	}

	if w.Edges == nil {
		w.Edges = []Edge{}
	}
}

// NodeIDs returns the set of node ids in the workflow.
func (w *Workflow) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(w.Nodes))
	for _, node := range w.Nodes {
		ids[node.ID] = struct{}{}
	}

	return ids
}

func copyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}

	return out
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return copyMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}

		return out
	default:
		return v
	}
}
