// Package storage writes encoded dataset files to their destinations.
// A run publishes every file twice, once to the combined destination and
// once to the owning table family's destination.
package storage

import (
	"context"
	"fmt"

	"github.com/fluxpay/txnforge/internal/config"
)

// ObjectStore abstracts one destination for dataset files.
type ObjectStore interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Exists reports whether an object is already present under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URI returns the canonical URI for the given key.
	// For local: file:///path, GCS: gs://bucket/path, S3: s3://bucket/path
	URI(key string) string

	// Close releases any resources.
	Close() error
}

// NewObjectStore creates a storage backend for one destination.
func NewObjectStore(dest config.Destination) (ObjectStore, error) {
	switch dest.Backend {
	case "local":
		if dest.LocalDir == "" {
			return nil, fmt.Errorf("local_dir required for local backend")
		}
		return NewLocalStore(dest.LocalDir, dest.Prefix)
	case "gcs":
		if dest.GCSBucket == "" {
			return nil, fmt.Errorf("gcs_bucket required for gcs backend")
		}
		return NewGCSStore(dest.GCSBucket, dest.Prefix)
	case "s3":
		if dest.S3Bucket == "" {
			return nil, fmt.Errorf("s3_bucket required for s3 backend")
		}
		return NewS3Store(dest.S3Bucket, dest.Prefix, dest.S3Endpoint, dest.S3Region)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", dest.Backend)
	}
}
