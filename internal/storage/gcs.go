package storage

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/gcsblob" // GCS driver
)

// GCSStore writes dataset files to Google Cloud Storage.
type GCSStore struct {
	bucket     *blob.Bucket
	bucketName string
	prefix     string
}

// NewGCSStore creates a new GCS store.
func NewGCSStore(bucketName, prefix string) (*GCSStore, error) {
	ctx := context.Background()

	bucket, err := blob.OpenBucket(ctx, fmt.Sprintf("gs://%s", bucketName))
	if err != nil {
		return nil, fmt.Errorf("open GCS bucket %s: %w", bucketName, err)
	}

	return &GCSStore{
		bucket:     bucket,
		bucketName: bucketName,
		prefix:     prefix,
	}, nil
}

// Put writes data to GCS under the prefixed key.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	path := s.prefix + key

	w, err := s.bucket.NewWriter(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("create writer for %s: %w", path, err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write data to %s: %w", path, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %s: %w", path, err)
	}

	return nil
}

// Exists checks if an object is already present in GCS.
func (s *GCSStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.bucket.Exists(ctx, s.prefix+key)
}

// URI returns the canonical gs:// URI for the given key.
func (s *GCSStore) URI(key string) string {
	return fmt.Sprintf("gs://%s/%s%s", s.bucketName, s.prefix, key)
}

// Close releases the bucket connection.
func (s *GCSStore) Close() error {
	if s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}
