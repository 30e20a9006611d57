package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs every run unless --cache or
// --cache-url is given, so the pipeline and the benchmark driver can call
// the cache unconditionally.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns the cache used when caching is off.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss for every key.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (*NullCache) Close() error { return nil }
