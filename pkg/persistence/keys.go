package persistence

// Storage keys. Per-workflow collections are stored under a prefix followed
// by the workflow id.
const (
	KeyIsAuthenticated = "isAuthenticated"
	KeyUser            = "user"
	KeyWorkflows       = "workflows"
	KeyTeams           = "teams"
	KeySharedWorkflows = "shared_workflows"
	KeyTheme           = "theme"
	KeyActivity        = "activity"

	VersionsKeyPrefix = "workflow_versions_"
	CommentsKeyPrefix = "workflow_comments_"
)

func VersionsKey(workflowID string) string {
	return VersionsKeyPrefix + workflowID
}

func CommentsKey(workflowID string) string {
	return CommentsKeyPrefix + workflowID
}
