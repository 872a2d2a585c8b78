// Package workflow implements the workflow repository and its version ledger
// on top of a persistence.Store. The whole workflow collection lives under a
// single key and is rewritten on every mutation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// Repository provides CRUD, cloning and versioning over workflows. Mutations
// are serialized within the process; separate processes sharing a store
// still race with last-writer-wins.
type Repository struct {
	mu     sync.Mutex
	store  persistence.Store
	ledger *Ledger
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Repository)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
		r.ledger.now = now
	}
}

func NewRepository(store persistence.Store, logger *slog.Logger, opts ...Option) *Repository {
	repo := &Repository{
		store:  store,
		ledger: NewLedger(store, logger),
		logger: logger.With("module", "workflow_repository"),
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

// Ledger returns the version ledger backing the repository.
func (r *Repository) Ledger() *Ledger {
	return r.ledger
}

// HealthCheck checks the health of the underlying store.
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.store.HealthCheck(ctx)
}

// List returns every stored workflow. A missing or unreadable collection is
// logged and treated as empty.
func (r *Repository) List(ctx context.Context) []*models.Workflow {
	workflows := persistence.LoadCollectionOrEmpty[*models.Workflow](ctx, r.logger, r.store, persistence.KeyWorkflows)

	return r.dropNull(ctx, workflows)
}

// load reads the collection ahead of a rewrite. Backend failures are
// returned so a mutation never overwrites rows it could not read.
func (r *Repository) load(ctx context.Context, op string) ([]*models.Workflow, error) {
	workflows, err := persistence.LoadCollectionForUpdate[*models.Workflow](ctx, r.logger, r.store, persistence.KeyWorkflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error loading workflows", "op", op, "error", err)

		return nil, err
	}

	return r.dropNull(ctx, workflows), nil
}

// dropNull removes null elements, which decode without error into nil.
func (r *Repository) dropNull(ctx context.Context, workflows []*models.Workflow) []*models.Workflow {
	valid := slices.DeleteFunc(workflows, func(w *models.Workflow) bool { return w == nil })
	if len(valid) != len(workflows) {
		r.logger.WarnContext(ctx, "Dropping null workflow entries", "count", len(workflows)-len(valid))
	}

	return valid
}

// GetByID returns the workflow with the given id.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	for _, workflow := range r.List(ctx) {
		if workflow.ID == id {
			return workflow, nil
		}
	}

	return nil, NewWorkflowError("GetByID", id, ErrWorkflowNotFound)
}

// Save upserts the workflow and records a ledger entry for it. The version is
// the stored record's version plus one (the input's version when the workflow
// is new) and UpdatedAt is refreshed; CreatedAt of a stored record never
// changes. When the collection cannot be written the input is returned
// unchanged together with the error.
func (r *Repository) Save(ctx context.Context, workflow *models.Workflow, comment string) (*models.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workflows, err := r.load(ctx, "Save")
	if err != nil {
		return workflow, NewWorkflowError("Save", workflow.ID, err)
	}

	now := r.now()

	updated := workflow.Clone()
	updated.Normalize()

	if updated.ID == "" {
		updated.ID = ids.Workflow()
	}

	existingIndex := slices.IndexFunc(workflows, func(w *models.Workflow) bool { return w.ID == updated.ID })

	previousVersion := workflow.Version
	if existingIndex >= 0 {
		previousVersion = workflows[existingIndex].Version
		updated.CreatedAt = workflows[existingIndex].CreatedAt
	}

	updated.Version = previousVersion + 1
	updated.UpdatedAt = now

	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = now
	}

	if existingIndex >= 0 {
		workflows[existingIndex] = updated
	} else {
		workflows = append(workflows, updated)
	}

	err = persistence.SaveCollection(ctx, r.store, persistence.KeyWorkflows, workflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error saving workflow", "workflow_id", updated.ID, "error", err)

		return workflow, NewWorkflowError("Save", updated.ID, err)
	}

	r.appendVersion(ctx, updated, comment)

	return updated, nil
}

// appendVersion records a ledger entry. The workflow row is already
// committed at this point, so a failure is logged and not returned.
func (r *Repository) appendVersion(ctx context.Context, workflow *models.Workflow, comment string) {
	_, err := r.ledger.Append(ctx, workflow, comment)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error saving workflow version", "workflow_id", workflow.ID, "error", err)
	}
}

// insert appends a brand-new workflow to the collection without versioning it.
func (r *Repository) insert(ctx context.Context, op string, workflow *models.Workflow) error {
	workflows, err := r.load(ctx, op)
	if err != nil {
		return NewWorkflowError(op, workflow.ID, err)
	}

	workflows = append(workflows, workflow)

	err = persistence.SaveCollection(ctx, r.store, persistence.KeyWorkflows, workflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error storing workflow", "op", op, "workflow_id", workflow.ID, "error", err)

		return NewWorkflowError(op, workflow.ID, err)
	}

	return nil
}

// Clone duplicates a workflow under a new id with regenerated node and edge
// ids. The copy starts at version 1 and points back at the original through
// ParentID. When newName is empty the copy is named "<original> (Copy)".
func (r *Repository) Clone(ctx context.Context, id, newName string) (*models.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nodes, edges, err := regenerateGraph(source.Nodes, source.Edges)
	if err != nil {
		return nil, &WorkflowError{Op: "Clone", WorkflowID: id, Message: "cannot remap graph", Err: err}
	}

	if newName == "" {
		newName = source.Name + " (Copy)"
	}

	now := r.now()
	cloned := &models.Workflow{
		ID:          ids.Workflow(),
		Name:        newName,
		Description: source.Description,
		Nodes:       nodes,
		Edges:       edges,
		Triggers:    copyTriggers(source.Triggers),
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
		ParentID:    id,
	}

	err = r.insert(ctx, "Clone", cloned)
	if err != nil {
		return nil, err
	}

	r.appendVersion(ctx, cloned, "Cloned from workflow "+source.Name)

	return cloned, nil
}

// Restore makes a ledger snapshot the current record of the workflow. The
// restored record keeps the snapshot's version number instead of
// incrementing it, and a new ledger entry documents the restoration.
func (r *Repository) Restore(ctx context.Context, workflowID string, version int) (*models.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.ledger.GetByVersion(ctx, workflowID, version)
	if err != nil {
		return nil, err
	}

	restored := entry.Data.Clone()
	restored.ID = workflowID
	restored.Version = entry.Data.Version
	restored.UpdatedAt = r.now()
	restored.Normalize()

	workflows, err := r.load(ctx, "Restore")
	if err != nil {
		return nil, &WorkflowError{Op: "Restore", WorkflowID: workflowID, Version: version, Err: err}
	}

	existingIndex := slices.IndexFunc(workflows, func(w *models.Workflow) bool { return w.ID == workflowID })
	if existingIndex < 0 {
		return nil, &WorkflowError{Op: "Restore", WorkflowID: workflowID, Version: version, Err: ErrWorkflowNotFound}
	}

	workflows[existingIndex] = restored

	err = persistence.SaveCollection(ctx, r.store, persistence.KeyWorkflows, workflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error restoring workflow version", "workflow_id", workflowID, "version", version, "error", err)

		return nil, &WorkflowError{Op: "Restore", WorkflowID: workflowID, Version: version, Err: err}
	}

	r.appendVersion(ctx, restored, fmt.Sprintf("Restored to version %d", version))

	return restored, nil
}

// Delete removes the workflow and its whole version ledger. Deleting an
// unknown id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	workflows, err := r.load(ctx, "Delete")
	if err != nil {
		return NewWorkflowError("Delete", id, err)
	}

	workflows = slices.DeleteFunc(workflows, func(w *models.Workflow) bool { return w.ID == id })

	err = persistence.SaveCollection(ctx, r.store, persistence.KeyWorkflows, workflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting workflow", "workflow_id", id, "error", err)

		return NewWorkflowError("Delete", id, err)
	}

	return r.ledger.Remove(ctx, id)
}

// ClearAll removes the workflow collection and every version ledger.
func (r *Repository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Remove(ctx, persistence.KeyWorkflows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error clearing workflows", "error", err)

		return errors.Join(fmt.Errorf("failed to remove workflows: %w", err), r.ledger.RemoveAll(ctx))
	}

	return r.ledger.RemoveAll(ctx)
}
