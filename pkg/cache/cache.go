// Package cache stores finished experiment reports so repeated runs of the
// same command can be skipped.
//
// Runs are deterministic for a given seed and parameter tuple, so a report
// keyed by its normalized command line stays valid until the binary changes.
// Keys are produced by a [Keyer]; the CLI scopes them by build version with
// [NewScopedKeyer].
//
// Three backends implement [Cache]:
//
//   - [FileCache]: sharded JSON files under the user cache directory
//   - [RedisCache]: a shared Redis instance for benchmark fleets
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries. Zero means no expiry.
const (
	TTLReport   time.Duration = 0
	TTLInstance               = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey is the key of the report produced by a run command.
	ReportKey(args []string) string

	// InstanceKey is the key of a generated instance.
	InstanceKey(args []string) string
}

// DefaultKeyer hashes the normalized argument list.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey implements [Keyer].
func (DefaultKeyer) ReportKey(args []string) string {
	return hashKey("report", toParts(args)...)
}

// InstanceKey implements [Keyer].
func (DefaultKeyer) InstanceKey(args []string) string {
	return hashKey("instance", toParts(args)...)
}

func toParts(args []string) []any {
	parts := make([]any, len(args))
	for i, a := range args {
		parts[i] = a
	}
	return parts
}
