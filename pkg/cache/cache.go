// Package cache stores rendered treemap artifacts between runs.
//
// Rendering PNG and PDF shells out to rsvg-convert and DOT goes through
// Graphviz, so repeated renders of an unchanged input are served from a
// cache keyed by the input digest and the options that shape the output.
//
// Two implementations are provided:
//
//   - [FileCache] keeps entries as JSON files under a directory, for the CLI.
//   - [NullCache] stores nothing, for --no-cache and tests.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
