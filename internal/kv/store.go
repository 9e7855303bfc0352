// Package kv defines the key-value slot persistence used for local state.
// Values are opaque strings; callers own their encoding.
package kv

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrStoreClosed = errors.New("kv store is closed")
	ErrEmptyKey    = errors.New("kv key cannot be empty")
)

// Store defines get/set-by-key persistence.
// A Set replaces the whole value; readers never observe a partial write.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close closes the store.
	Close() error
}
