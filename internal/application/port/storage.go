package port

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// BlobStore is the blob storage boundary. Paths are opaque object
// keys; metadata is the opaque map carried on each path.
type BlobStore interface {
	Exists(ctx context.Context, path string) (bool, error)

	// GetMetadata returns (nil, nil) when the blob does not exist.
	GetMetadata(ctx context.Context, path string) (entity.FileMetadata, error)

	// SetMetadata replaces the blob's metadata map wholesale.
	SetMetadata(ctx context.Context, path string, metadata entity.FileMetadata) error

	Delete(ctx context.Context, path string) error
}
