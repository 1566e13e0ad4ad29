package cache

import "context"

// Store is a body cache keyed by canonical request keys. Implementations are
// safe for concurrent use. Get returns false for missing or expired entries.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	// Len is the current entry count, Max the configured capacity (0 when
	// the backend manages its own capacity).
	Len() int
	Max() int
}
