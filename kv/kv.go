// Package kv abstracts the durable key-value storage used for account and
// session persistence. Keys live under a fixed namespace prefix; values are
// opaque byte slices (JSON documents in practice).
package kv

import "context"

// Namespace prefixes every key written by this application.
const Namespace = "uwezo:"

// Store is the persistence boundary. Implementations must tolerate concurrent
// callers and treat unreadable values as absent rather than failing.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

func namespaced(key string) string {
	return Namespace + key
}
