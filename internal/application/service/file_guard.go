package service

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// FileAccessGuard authorizes ad hoc blob operations. Deletion of an
// unassociated blob is owner-only (tracked via the uploader metadata);
// once a blob is associated to an expense, authorization defers to the
// expense ownership/management rules instead.
type FileAccessGuard interface {
	// AuthorizeDelete checks whether requesterID may delete the blob
	// at path. An empty requesterID is the privileged internal cleanup
	// path and is authorized unconditionally.
	AuthorizeDelete(ctx context.Context, requesterID, path string) error

	// Delete authorizes and then removes the blob.
	Delete(ctx context.Context, requesterID, path string) error

	// Associate overwrites the blob's metadata with the entity link.
	// Prior uploader metadata is not preserved: association supersedes
	// raw ownership.
	Associate(ctx context.Context, path, entityType, entityID string) error
}

type fileAccessGuardImpl struct {
	blobs        port.BlobStore
	expenseStore port.ExpenseStore
	authz        AuthorizationEngine
	logger       Logger
}

// NewFileAccessGuard creates a new FileAccessGuard
func NewFileAccessGuard(
	blobs port.BlobStore,
	expenseStore port.ExpenseStore,
	authz AuthorizationEngine,
	logger Logger,
) FileAccessGuard {
	return &fileAccessGuardImpl{
		blobs:        blobs,
		expenseStore: expenseStore,
		authz:        authz,
		logger:       logger,
	}
}

func (g *fileAccessGuardImpl) AuthorizeDelete(ctx context.Context, requesterID, path string) error {
	metadata, err := g.blobs.GetMetadata(ctx, path)
	if err != nil {
		g.logger.Error("Failed to read blob metadata", "error", err, "path", path)
		return apperr.Internal("file/metadata-read-failed", err)
	}
	if metadata == nil {
		return apperr.NotFound("file/not-found")
	}

	// Internal cleanup path: no requester means unconditional delete.
	if requesterID == "" {
		return nil
	}

	if !metadata.Associated() {
		if metadata[entity.MetaUserID] != requesterID {
			return apperr.PermissionDenied("file/not-owner")
		}
		return nil
	}

	switch metadata[entity.MetaEntityType] {
	case entity.EntityTypeExpense:
		return g.authorizeExpenseBlob(ctx, requesterID, metadata[entity.MetaEntityID])
	default:
		// Blobs attached to other resource types fall under the
		// resource-management capability.
		return g.authz.RequireResourceManagement(ctx, requesterID)
	}
}

func (g *fileAccessGuardImpl) Delete(ctx context.Context, requesterID, path string) error {
	if err := g.AuthorizeDelete(ctx, requesterID, path); err != nil {
		return err
	}

	if err := g.blobs.Delete(ctx, path); err != nil {
		g.logger.Error("Failed to delete blob", "error", err, "path", path)
		return apperr.Internal("file/delete-failed", err)
	}

	g.logger.Info("Blob deleted", "path", path, "requester_id", requesterID)
	return nil
}

func (g *fileAccessGuardImpl) Associate(ctx context.Context, path, entityType, entityID string) error {
	exists, err := g.blobs.Exists(ctx, path)
	if err != nil {
		g.logger.Error("Failed to check blob existence", "error", err, "path", path)
		return apperr.Internal("file/exists-check-failed", err)
	}
	if !exists {
		return apperr.NotFound("file/not-found")
	}

	metadata := entity.FileMetadata{
		entity.MetaEntityType: entityType,
		entity.MetaEntityID:   entityID,
	}
	if err := g.blobs.SetMetadata(ctx, path, metadata); err != nil {
		g.logger.Error("Failed to set blob metadata", "error", err, "path", path)
		return apperr.Internal("file/metadata-write-failed", err)
	}

	return nil
}

// authorizeExpenseBlob applies the expense ownership/management rules
// to a blob associated with an expense.
func (g *fileAccessGuardImpl) authorizeExpenseBlob(ctx context.Context, requesterID, expenseID string) error {
	expense, err := g.expenseStore.Get(ctx, expenseID)
	if err != nil {
		g.logger.Error("Failed to load expense for blob check", "error", err, "expense_id", expenseID)
		return apperr.Internal("expense/lookup-failed", err)
	}
	if expense == nil {
		return apperr.NotFound("expense/not-found")
	}

	if requesterID != expense.AssignedToID {
		return g.authz.RequireExpenseManagement(ctx, requesterID)
	}
	return nil
}
