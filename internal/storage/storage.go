// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, AWS S3, ArvanCloud).
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the interface for a bucket-scoped object store client.
type ObjectStore interface {
	// EnsureBucket creates the bucket if it does not exist yet. It is
	// idempotent and safe to call from concurrent requests.
	EnsureBucket(ctx context.Context) error
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// SignedURL returns a time-limited, credential-free GET URL for key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
