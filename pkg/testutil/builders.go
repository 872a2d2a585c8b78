// Package testutil provides test data builders for workflows and their graphs.
package testutil

import (
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) models.Node {
	node := models.Node{
		ID:       uuid.NewString(),
		Type:     models.NodeTypeAction,
		Position: models.Position{X: 100, Y: 200},
		Data:     map[string]any{"label": "Test Node"},
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

func WithNodeID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

func WithNodeType(nodeType models.NodeType) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithLabel sets the label shown on the canvas.
func WithLabel(label string) func(*models.Node) {
	return func(n *models.Node) {
		if n.Data == nil {
			n.Data = map[string]any{}
		}

		n.Data["label"] = label
	}
}

// ConnectNodes returns an edge from source to target.
func ConnectNodes(source, target models.Node) models.Edge {
	return models.Edge{
		ID:     "edge-" + source.ID + "-" + target.ID,
		Source: source.ID,
		Target: target.ID,
	}
}

// CreateTestWorkflow creates a workflow with a trigger node wired to one
// action node and a manual trigger. It has no id, so saving it creates it.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	start := CreateTestNode(WithNodeID("start"), WithNodeType(models.NodeTypeTrigger), WithLabel("Start"))
	action := CreateTestNode(WithNodeID("action"), WithLabel("Do work"))

	workflow := &models.Workflow{
		Name:     "Test Workflow",
		Nodes:    []models.Node{start, action},
		Edges:    []models.Edge{ConnectNodes(start, action)},
		Triggers: []models.Trigger{{ID: "manual", Type: models.TriggerTypeManual, Name: "Run"}},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

func WithWorkflowName(name string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Name = name
	}
}

// WithSchedule adds a schedule trigger with the given cron expression.
func WithSchedule(expression string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Triggers = append(w.Triggers, models.Trigger{
			ID:     "schedule",
			Type:   models.TriggerTypeSchedule,
			Name:   "Schedule",
			Config: map[string]any{models.CronConfigKey: expression},
		})
	}
}

// WithNodes appends nodes chained after the last existing node.
func WithNodes(nodes ...models.Node) func(*models.Workflow) {
	return func(w *models.Workflow) {
		for _, node := range nodes {
			if len(w.Nodes) > 0 {
				w.Edges = append(w.Edges, ConnectNodes(w.Nodes[len(w.Nodes)-1], node))
			}

			w.Nodes = append(w.Nodes, node)
		}
	}
}
