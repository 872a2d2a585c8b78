package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/go-playground/validator/v10"
)

// validateWorkflow checks the record before it is persisted: a name, well
// formed nodes with unique ids, edges between known nodes, and parseable
// schedules on schedule triggers.
func validateWorkflow(v *validator.Validate, op string, wf *models.Workflow) error {
	if wf == nil {
		return ErrWorkflowNil
	}

	if strings.TrimSpace(wf.Name) == "" {
		return NewValidationError(op, "WORKFLOW_NAME_REQUIRED", "workflow name is required", ErrWorkflowNameRequired)
	}

	err := v.Struct(wf)
	if err != nil {
		return NewValidationError(op, "INVALID_WORKFLOW", describe(err), ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(wf.Nodes))

	for _, node := range wf.Nodes {
		err = v.Struct(node)
		if err != nil {
			return NewValidationError(op, "INVALID_NODE", fmt.Sprintf("node %q: %s", node.ID, describe(err)), ErrInvalidNode)
		}

		if _, dup := seen[node.ID]; dup {
			return NewValidationError(op, "DUPLICATE_NODE_ID", fmt.Sprintf("node id %q is used more than once", node.ID), ErrDuplicateNodeID)
		}

		seen[node.ID] = struct{}{}
	}

	for _, edge := range wf.Edges {
		err = v.Struct(edge)
		if err != nil {
			return NewValidationError(op, "INVALID_EDGE", fmt.Sprintf("edge %q: %s", edge.ID, describe(err)), ErrInvalidEdge)
		}

		for _, endpoint := range []string{edge.Source, edge.Target} {
			if _, ok := seen[endpoint]; !ok {
				return NewValidationError(op, "INVALID_EDGE", fmt.Sprintf("edge %q references unknown node %q", edge.ID, endpoint), ErrInvalidEdge)
			}
		}
	}

	for _, trigger := range wf.Triggers {
		err = validateTrigger(v, op, trigger)
		if err != nil {
			return err
		}
	}

	return nil
}

func validateTrigger(v *validator.Validate, op string, trigger models.Trigger) error {
	err := v.Struct(trigger)
	if err != nil {
		return NewValidationError(op, "INVALID_TRIGGER", fmt.Sprintf("trigger %q: %s", trigger.ID, describe(err)), ErrInvalidTrigger)
	}

	if trigger.Type != models.TriggerTypeSchedule {
		return nil
	}

	_, err = trigger.NextRun(time.Now())
	if err != nil {
		return NewValidationError(op, "INVALID_CRON_EXPRESSION",
			fmt.Sprintf("trigger %q: %v", trigger.ID, err), ErrInvalidCronExpression)
	}

	return nil
}

// describe flattens validator errors into one readable line.
func describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	parts := make([]string, len(validationErrors))
	for i, fieldErr := range validationErrors {
		parts[i] = fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag())
	}

	return strings.Join(parts, ", ")
}
