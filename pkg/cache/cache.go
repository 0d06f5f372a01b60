// Package cache stores pipeline results keyed by their inputs.
//
// A run with a fixed seed is a pure function of the graph bytes and the
// pipeline configuration, so the CLI can reuse an earlier result instead of
// executing every stage again. [ResultKey] derives the key and [FileCache]
// keeps entries on disk.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the entry for key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
