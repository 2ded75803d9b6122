// Package store defines the key-value persistence interface the SRS manager
// round-trips its snapshot through, along with the shared store errors.
// Concrete backends live under internal/platform.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the persistence collaborator: a minimal asynchronous key-value
// store. The engine stores its entire SRS snapshot as one value under a
// fixed key; there is no partial or incremental persistence.
type KVStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
