package models

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

// TriggerType identifies what starts a workflow.
type TriggerType string

const (
	TriggerTypeWebhook  TriggerType = "webhook"
	TriggerTypeSchedule TriggerType = "schedule"
	TriggerTypeEvent    TriggerType = "event"
	TriggerTypeManual   TriggerType = "manual"
)

// CronConfigKey is the config entry holding a schedule trigger's expression.
const CronConfigKey = "cron"

var ErrMissingCronExpression = errors.New("schedule trigger requires a cron expression")

// Trigger is a trigger configuration record attached to a workflow.
type Trigger struct {
	ID     string         `json:"id"`
	Type   TriggerType    `json:"type"           validate:"required"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config,omitempty"`
}

func (t Trigger) Clone() Trigger {
	t.Config = copyMap(t.Config)

	return t
}

// CronExpression returns the configured cron expression of a schedule trigger.
func (t Trigger) CronExpression() string {
	expr, _ := t.Config[CronConfigKey].(string)

	return expr
}

// NextRun computes the next time a schedule trigger would fire after the
// reference time. It uses the standard 5-field cron format.
func (t Trigger) NextRun(reference time.Time) (time.Time, error) {
	expr := t.CronExpression()
	if expr == "" {
		return time.Time{}, ErrMissingCronExpression
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	schedule, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}

	return schedule.Next(reference), nil
}
