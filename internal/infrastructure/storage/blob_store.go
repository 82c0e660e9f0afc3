package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// Config holds blob store configuration
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// BlobStore implements port.BlobStore on an S3-compatible bucket.
// Association metadata rides on S3 user metadata, so SetMetadata is a
// server-side copy onto the same key with replaced metadata.
type BlobStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewBlobStore creates a new blob store client
func NewBlobStore(cfg Config, logger *zap.Logger) (*BlobStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &BlobStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Exists reports whether a blob is stored at path
func (s *BlobStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		s.logger.Error("Failed to stat blob", zap.String("path", path), zap.Error(err))
		return false, fmt.Errorf("stat blob: %w", err)
	}
	return true, nil
}

// GetMetadata returns the blob's user metadata with lowercased keys,
// or (nil, nil) when the blob does not exist
func (s *BlobStore) GetMetadata(ctx context.Context, path string) (entity.FileMetadata, error) {
	info, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		s.logger.Error("Failed to stat blob", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("stat blob: %w", err)
	}

	// S3 canonicalizes metadata key casing; normalize to lowercase.
	metadata := make(entity.FileMetadata, len(info.UserMetadata))
	for key, value := range info.UserMetadata {
		metadata[strings.ToLower(key)] = value
	}
	return metadata, nil
}

// SetMetadata replaces the blob's user metadata wholesale
func (s *BlobStore) SetMetadata(ctx context.Context, path string, metadata entity.FileMetadata) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          s.bucket,
			Object:          path,
			UserMetadata:    metadata,
			ReplaceMetadata: true,
		},
		minio.CopySrcOptions{
			Bucket: s.bucket,
			Object: path,
		},
	)
	if err != nil {
		s.logger.Error("Failed to set blob metadata", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("set blob metadata: %w", err)
	}
	return nil
}

// Delete removes the blob at path. Deleting a missing blob succeeds.
func (s *BlobStore) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		s.logger.Error("Failed to delete blob", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == 404
}

// Verify interface compliance
var _ port.BlobStore = (*BlobStore)(nil)
