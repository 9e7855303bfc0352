package kv

import "testing"

func TestMemoryStore(t *testing.T) {
	RunStoreTests(t, func() (Store, func()) {
		store := NewMemoryStore()
		return store, func() { store.Close() }
	})
}
