package workflow

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dukex/flowdesk/pkg/ids"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// Ledger is the append-only snapshot history of each workflow, stored under
// one key per workflow.
type Ledger struct {
	store  persistence.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewLedger(store persistence.Store, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger.With("module", "version_ledger"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the entries of a workflow in append order. Unreadable ledgers
// are logged and treated as empty.
func (l *Ledger) List(ctx context.Context, workflowID string) []models.WorkflowVersion {
	return persistence.LoadCollectionOrEmpty[models.WorkflowVersion](ctx, l.logger, l.store, persistence.VersionsKey(workflowID))
}

// ListDescending returns the entries sorted by version number, newest first.
// Entries sharing a version keep their append order reversed.
func (l *Ledger) ListDescending(ctx context.Context, workflowID string) []models.WorkflowVersion {
	versions := l.List(ctx, workflowID)
	slices.Reverse(versions)
	slices.SortStableFunc(versions, func(a, b models.WorkflowVersion) int {
		return cmp.Compare(b.Version, a.Version)
	})

	return versions
}

// Append pushes one snapshot of the workflow onto its ledger. It neither
// deduplicates nor checks that versions increase.
func (l *Ledger) Append(ctx context.Context, snapshot *models.Workflow, comment string) (*models.WorkflowVersion, error) {
	version := snapshot.Version
	if version == 0 {
		version = 1
	}

	if comment == "" {
		comment = fmt.Sprintf("Version %d", version)
	}

	entry := models.WorkflowVersion{
		ID:         ids.Version(),
		WorkflowID: snapshot.ID,
		Version:    version,
		Data:       *snapshot.Clone(),
		CreatedAt:  l.now(),
		Comment:    comment,
	}

	versions, err := persistence.LoadCollectionForUpdate[models.WorkflowVersion](ctx, l.logger, l.store, persistence.VersionsKey(snapshot.ID))
	if err != nil {
		return nil, NewWorkflowError("AppendVersion", snapshot.ID, err)
	}

	versions = append(versions, entry)

	err = persistence.SaveCollection(ctx, l.store, persistence.VersionsKey(snapshot.ID), versions)
	if err != nil {
		return nil, NewWorkflowError("AppendVersion", snapshot.ID, err)
	}

	return &entry, nil
}

// Replace installs entries as the whole ledger of the workflow.
func (l *Ledger) Replace(ctx context.Context, workflowID string, entries []models.WorkflowVersion) error {
	err := persistence.SaveCollection(ctx, l.store, persistence.VersionsKey(workflowID), entries)
	if err != nil {
		return NewWorkflowError("ReplaceVersions", workflowID, err)
	}

	return nil
}

// GetByVersion returns the first entry recorded for the version number.
func (l *Ledger) GetByVersion(ctx context.Context, workflowID string, version int) (*models.WorkflowVersion, error) {
	for _, entry := range l.List(ctx, workflowID) {
		if entry.Version == version {
			return &entry, nil
		}
	}

	return nil, &WorkflowError{Op: "GetVersion", WorkflowID: workflowID, Version: version, Err: ErrVersionNotFound}
}

// Remove deletes the whole ledger of the workflow.
func (l *Ledger) Remove(ctx context.Context, workflowID string) error {
	err := l.store.Remove(ctx, persistence.VersionsKey(workflowID))
	if err != nil {
		return NewWorkflowError("RemoveVersions", workflowID, err)
	}

	return nil
}

// RemoveAll deletes every ledger in the store.
func (l *Ledger) RemoveAll(ctx context.Context) error {
	keys, err := l.store.KeysWithPrefix(ctx, persistence.VersionsKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list version ledgers: %w", err)
	}

	var errs []error

	for _, key := range keys {
		err := l.store.Remove(ctx, key)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
