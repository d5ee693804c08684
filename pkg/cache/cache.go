// Package cache stores intermediate reassembly results between runs.
//
// Scoring every pair of a large cluster is the most expensive stage of a
// run, and its output depends only on the member strips and the scoring
// parameters. The pipeline keys scored edges by a hash of both and keeps
// them in a [Cache], so re-running with a different leftover policy or gap
// skips straight to assembly.
//
// Two implementations are provided:
//   - [FileCache]: JSON files under a directory, for CLI use
//   - [NullCache]: never stores anything, for tests and --no-cache
package cache

import (
	"context"
	"time"
)

// Time-to-live values per entry type.
const (
	// TTLEdges applies to scored edge lists. Scores are deterministic, so
	// the limit only bounds disk usage.
	TTLEdges = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
