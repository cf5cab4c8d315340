package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or its TTL has elapsed.
var ErrMiss = errors.New("cache: key not found")

// Cache is a short-lived key-value store with per-entry TTL. Entries are never
// authoritative for expiry; the database is the source of truth and cache
// failures must degrade to a database lookup.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
