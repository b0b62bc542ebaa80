// Package cache defines the local durable key-value mirror used for offline
// fallback.
package cache

import "context"

// Cache stores JSON-serialized snapshots under string keys. Entries persist
// until overwritten or deleted; there is no TTL.
type Cache interface {
	// SaveLocally overwrites the entry at key with the serialized value.
	SaveLocally(ctx context.Context, key string, value any) error
	// GetLocal decodes the entry at key into dest. It reports (false, nil)
	// both when the key is absent and when the stored entry fails to
	// decode; callers must not distinguish the two.
	GetLocal(ctx context.Context, key string, dest any) (bool, error)
	// Delete removes the entry at key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys beginning with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
