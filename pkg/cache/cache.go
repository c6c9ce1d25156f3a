// Package cache provides storage backends for computed route results.
//
// A route result is a pure function of the overlay fingerprint and the
// endpoint pair, so entries never need invalidation: any mutation to the
// overlay changes the fingerprint and with it the key. The cache is an
// optimization layer under the planner; a cold cache only costs a
// recomputation.
//
// Backends:
//   - memory: process-local, for single-instance servers and tests
//   - file: XDG cache directory, for CLI usage across invocations
//   - redis: shared, for multi-instance deployments
//   - null: caching disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a cache that has been closed.
var ErrClosed = errors.New("cache closed")

// TTLRoute is how long cached route results are kept. Map overlays are
// session-scoped and short-lived, so entries age out quickly.
const TTLRoute = 1 * time.Hour

// Cache stores opaque byte values under string keys with a TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RouteKey builds the cache key for one route computation. The overlay
// fingerprint already covers the topology hash, blocked sets and current
// weights, so equal keys imply equal results.
func RouteKey(fingerprint, start, goal string) string {
	return hashKey("route", fingerprint, start, goal)
}
