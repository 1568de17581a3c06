// Package cache stores rendered artifacts between runs.
//
// A rendered document depends only on the snapshot file it came from and on
// the render options, so it can be reused until either changes. Keys are
// built by a [Keyer] from those inputs; values are opaque bytes.
//
// Two implementations are provided: [FileCache] for the CLI, which keeps
// entries as JSON files under the user cache directory, and [NullCache],
// which stores nothing and is used when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
