package workflow

import (
	"fmt"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
)

// regenerateGraph deep-copies nodes and edges giving every node and edge a
// fresh id, and rewrites edge endpoints to the regenerated node ids. An edge
// whose source or target is not one of the given nodes is rejected with
// ErrDanglingEdge rather than copied with a stale endpoint.
func regenerateGraph(nodes []models.Node, edges []models.Edge) ([]models.Node, []models.Edge, error) {
	nodeIDMap := make(map[string]string, len(nodes))
	newNodes := make([]models.Node, len(nodes))

	for i, node := range nodes {
		newNodeID := ids.Node()
		nodeIDMap[node.ID] = newNodeID

		copied := node.Clone()
		copied.ID = newNodeID
		newNodes[i] = copied
	}

	newEdges := make([]models.Edge, len(edges))

	for i, edge := range edges {
		newSource, ok := nodeIDMap[edge.Source]
		if !ok {
			return nil, nil, fmt.Errorf("edge %s source %s: %w", edge.ID, edge.Source, ErrDanglingEdge)
		}

		newTarget, ok := nodeIDMap[edge.Target]
		if !ok {
			return nil, nil, fmt.Errorf("edge %s target %s: %w", edge.ID, edge.Target, ErrDanglingEdge)
		}

		copied := edge.Clone()
		copied.ID = ids.Edge()
		copied.Source = newSource
		copied.Target = newTarget
		newEdges[i] = copied
	}

	return newNodes, newEdges, nil
}

func copyTriggers(triggers []models.Trigger) []models.Trigger {
	out := make([]models.Trigger, len(triggers))
	for i, trigger := range triggers {
		out[i] = trigger.Clone()
	}

	return out
}
