package models

// NodeType is the type tag of a graph vertex.
type NodeType string

const (
	NodeTypeTrigger        NodeType = "trigger"
	NodeTypeAction         NodeType = "action"
	NodeTypeCondition      NodeType = "condition"
	NodeTypeLoop           NodeType = "loop"
	NodeTypeTransformation NodeType = "transformation"
)

// Position is the canvas coordinate of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a graph vertex with a type tag and an opaque data payload.
type Node struct {
	ID       string         `json:"id"             validate:"required"`
	Type     NodeType       `json:"type"           validate:"required"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data,omitempty"`
}

func (n Node) Clone() Node {
	n.Data = copyMap(n.Data)

	return n
}

// Edge is a directed connection between two node ids. SourceHandle tags the
// outgoing branch, e.g. "true" or "false" on a condition node.
type Edge struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"                 validate:"required"`
	Target       string         `json:"target"                 validate:"required"`
	SourceHandle string         `json:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty"`
	Type         string         `json:"type,omitempty"`
	Animated     bool           `json:"animated,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

func (e Edge) Clone() Edge {
	e.Data = copyMap(e.Data)

	return e
}
