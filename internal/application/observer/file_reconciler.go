package observer

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/application/dispatcher"
	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
	"github.com/mkowalsky/expensegate/internal/domain/event"
)

// FileReconciler keeps uploaded blobs consistent with the expenses
// that reference them. It reacts to the three lifecycle events and is
// strictly best-effort: individual blob failures are logged and
// swallowed so one bad blob never blocks the rest of the batch, and a
// reconciliation failure never fails the triggering expense mutation.
type FileReconciler struct {
	guard  service.FileAccessGuard
	logger service.Logger
}

// NewFileReconciler creates a new FileReconciler
func NewFileReconciler(guard service.FileAccessGuard, logger service.Logger) *FileReconciler {
	return &FileReconciler{
		guard:  guard,
		logger: logger,
	}
}

// Register subscribes the reconciler to the expense lifecycle events.
func (r *FileReconciler) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.ExpenseCreated, "file-reconciler", r.handleCreated)
	d.SubscribeNamed(event.ExpenseUpdated, "file-reconciler", r.handleUpdated)
	d.SubscribeNamed(event.ExpenseDeleted, "file-reconciler", r.handleDeleted)
}

func (r *FileReconciler) handleCreated(ctx context.Context, evt *event.Event) error {
	if evt.After == nil {
		return nil
	}
	r.associateAll(ctx, evt.After.ID, evt.After.Pictures)
	return nil
}

func (r *FileReconciler) handleUpdated(ctx context.Context, evt *event.Event) error {
	if evt.Before == nil || evt.After == nil {
		return nil
	}

	added := difference(evt.After.Pictures, evt.Before.Pictures)
	removed := difference(evt.Before.Pictures, evt.After.Pictures)

	r.associateAll(ctx, evt.After.ID, added)

	// A picture taken out of the list is discarded, not merely
	// unlinked.
	r.deleteAll(ctx, removed)
	return nil
}

func (r *FileReconciler) handleDeleted(ctx context.Context, evt *event.Event) error {
	if evt.Before == nil {
		return nil
	}
	r.deleteAll(ctx, evt.Before.Pictures)
	return nil
}

// associateAll stamps the expense link onto each blob, then deletes
// any blob that failed to associate: an association failure means the
// blob must not survive orphaned.
func (r *FileReconciler) associateAll(ctx context.Context, expenseID string, paths []string) {
	var failed []string
	for _, path := range paths {
		if err := r.guard.Associate(ctx, path, entity.EntityTypeExpense, expenseID); err != nil {
			r.logger.Error("Failed to associate blob", "error", err, "path", path, "expense_id", expenseID)
			failed = append(failed, path)
		}
	}
	r.deleteAll(ctx, failed)
}

// deleteAll removes blobs via the privileged internal cleanup path.
func (r *FileReconciler) deleteAll(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := r.guard.Delete(ctx, "", path); err != nil {
			r.logger.Error("Failed to delete blob", "error", err, "path", path)
		}
	}
}

// difference returns the paths present in a but not in b.
func difference(a, b []string) []string {
	if len(a) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(b))
	for _, path := range b {
		seen[path] = true
	}

	var out []string
	for _, path := range a {
		if !seen[path] {
			out = append(out, path)
		}
	}
	return out
}
