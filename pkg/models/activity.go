package models

import "time"

// ActivityType classifies an entry of the activity feed.
type ActivityType string

const (
	ActivityRun    ActivityType = "run"
	ActivityEdit   ActivityType = "edit"
	ActivityDelete ActivityType = "delete"
	ActivityShare  ActivityType = "share"
	ActivityCreate ActivityType = "create"
)

// Activity is one entry of the user-facing activity history.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Resource    string       `json:"resource"`
	ResourceID  string       `json:"resourceId"`
	Timestamp   time.Time    `json:"timestamp"`
}
