// Package cache provides byte-level caching for rendered timelines.
//
// The render pipeline is deterministic: the same entries, offsets, canvas
// and render options always produce the same frame and the same SVG. The
// cache stores those outputs under content-addressed keys so repeated
// renders (CLI reruns, API requests for an unchanged timeline) skip layout
// and rendering entirely.
//
// # Backends
//
//   - [NullCache]: never stores anything
//   - [FileCache]: JSON envelopes on disk, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// # Keys
//
// A [Keyer] derives keys from the inputs of each stage. [ScopedKeyer]
// prefixes every key, which keeps several timelines apart in one backend.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the cached value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	FrameTTL    = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)
