// Package blobstore keeps drawing files outside the catalogue database.
// There are two backends: a local directory and an S3 bucket.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fabcatalogue/config"
)

// ErrNotFound is returned when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store is implemented by every backend.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Name() string
}

// Open returns the backend selected by cfg.Type.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "", "filesystem":
		return NewFilesystem(cfg.Dir)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
