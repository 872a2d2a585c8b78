// Package ids generates the prefixed identifiers used for stored records.
package ids

import "github.com/google/uuid"

const (
	WorkflowPrefix = "wf-"
	VersionPrefix  = "ver-"
	NodePrefix     = "node_"
	EdgePrefix     = "edge_"
	TeamPrefix     = "team-"
	SharePrefix    = "share-"
	CommentPrefix  = "comment-"
	ActivityPrefix = "act-"
)

// New returns prefix followed by a random UUID.
func New(prefix string) string {
	return prefix + uuid.New().String()
}

func Workflow() string { return New(WorkflowPrefix) }
func Version() string  { return New(VersionPrefix) }
func Node() string     { return New(NodePrefix) }
func Edge() string     { return New(EdgePrefix) }
func Team() string     { return New(TeamPrefix) }
func Share() string    { return New(SharePrefix) }
func Comment() string  { return New(CommentPrefix) }
func Activity() string { return New(ActivityPrefix) }
