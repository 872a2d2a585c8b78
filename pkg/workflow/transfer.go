package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// importSchema describes the minimal shape accepted by Import.
const importSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["workflow"],
  "properties": {
    "workflow": {
      "type": "object",
      "required": ["name", "nodes", "edges"],
      "properties": {
        "name": {"type": "string"},
        "description": {"type": "string"},
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string"}}
          }
        },
        "edges": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["source", "target"],
            "properties": {
              "source": {"type": "string"},
              "target": {"type": "string"}
            }
          }
        },
        "triggers": {"type": ["array", "null"]}
      }
    },
    "versions": {"type": ["array", "null"]}
  }
}`

var importSchemaLoader = gojsonschema.NewStringLoader(importSchema)

// ImportPayload is the decoded form of an export document.
type ImportPayload struct {
	Workflow *models.Workflow         `json:"workflow"`
	Versions []models.WorkflowVersion `json:"versions"`
}

// Export serializes the workflow, and optionally its full ledger, as
// pretty-printed JSON.
func (r *Repository) Export(ctx context.Context, id string, includeVersions bool) (string, error) {
	workflow, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	document := map[string]any{"workflow": workflow}
	if includeVersions {
		document["versions"] = r.ledger.List(ctx, id)
	}

	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		r.logger.ErrorContext(ctx, "Error exporting workflow", "workflow_id", id, "error", err)

		return "", NewWorkflowError("Export", id, err)
	}

	return string(raw), nil
}

// Import creates a new workflow from an export document. Every id is
// regenerated, the name gets an " (Imported)" suffix and the workflow starts
// at version 1. When the document carries a versions array it replaces the
// ledger of the new workflow, with entry ids, workflow ids and snapshot ids
// rewritten.
func (r *Repository) Import(ctx context.Context, data string) (*models.Workflow, error) {
	payload, err := parseImport(data)
	if err != nil {
		r.logger.WarnContext(ctx, "Rejected workflow import", "error", err)

		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	source := payload.Workflow

	nodes, edges, err := regenerateGraph(source.Nodes, source.Edges)
	if err != nil {
		return nil, &WorkflowError{Op: "Import", Message: "cannot remap graph", Err: err}
	}

	now := r.now()
	imported := &models.Workflow{
		ID:          ids.Workflow(),
		Name:        source.Name + " (Imported)",
		Description: source.Description,
		Nodes:       nodes,
		Edges:       edges,
		Triggers:    copyTriggers(source.Triggers),
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	err = r.insert(ctx, "Import", imported)
	if err != nil {
		return nil, err
	}

	r.appendVersion(ctx, imported, "Imported workflow")

	if payload.Versions != nil {
		entries := make([]models.WorkflowVersion, len(payload.Versions))

		for i, version := range payload.Versions {
			entry := version
			entry.ID = ids.Version()
			entry.WorkflowID = imported.ID
			entry.Data = *version.Data.Clone()
			entry.Data.ID = imported.ID
			entries[i] = entry
		}

		err = r.ledger.Replace(ctx, imported.ID, entries)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error importing workflow versions", "workflow_id", imported.ID, "error", err)
		}
	}

	return imported, nil
}

func parseImport(data string) (*ImportPayload, error) {
	result, err := gojsonschema.Validate(importSchemaLoader, gojsonschema.NewStringLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidImport, strings.Join(problems, "; "))
	}

	var payload ImportPayload

	err = json.Unmarshal([]byte(data), &payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	return &payload, nil
}
