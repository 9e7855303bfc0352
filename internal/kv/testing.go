package kv

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Get", func(t *testing.T) {
		runGetTests(t, newStore)
	})
	t.Run("Set", func(t *testing.T) {
		runSetTests(t, newStore)
	})
	t.Run("Delete", func(t *testing.T) {
		runDeleteTests(t, newStore)
	})
	t.Run("Close", func(t *testing.T) {
		runCloseTests(t, newStore)
	})
}

func runGetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("missing key reports not found", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		value, ok, err := store.Get(context.Background(), "users")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, _, err := store.Get(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func runSetTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("stores and returns value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "users", `[{"login":"a"}]`))

		value, ok, err := store.Get(ctx, "users")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"login":"a"}]`, value)
	})

	t.Run("overwrites whole value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "users", strings.Repeat("x", 4096)))
		require.NoError(t, store.Set(ctx, "users", "[]"))

		value, ok, err := store.Get(ctx, "users")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", value)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "a", "1"))
		require.NoError(t, store.Set(ctx, "b", "2"))

		a, _, err := store.Get(ctx, "a")
		require.NoError(t, err)
		b, _, err := store.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "1", a)
		assert.Equal(t, "2", b)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "users", ""))

		_, ok, err := store.Get(ctx, "users")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("concurrent writers leave one whole value", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		values := []string{"[1]", "[1,2]", "[1,2,3]", "[1,2,3,4]"}

		var wg sync.WaitGroup
		for _, v := range values {
			wg.Add(1)
			go func(v string) {
				defer wg.Done()
				assert.NoError(t, store.Set(ctx, "users", v))
			}(v)
		}
		wg.Wait()

		value, ok, err := store.Get(ctx, "users")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, values, value)
	})
}

func runDeleteTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("removes key", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Set(ctx, "users", "[]"))
		require.NoError(t, store.Delete(ctx, "users"))

		_, ok, err := store.Get(ctx, "users")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		assert.NoError(t, store.Delete(context.Background(), "nothing"))
	})
}

func runCloseTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("operations fail after close", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ctx := context.Background()
		require.NoError(t, store.Close())

		_, _, err := store.Get(ctx, "users")
		assert.ErrorIs(t, err, ErrStoreClosed)
		assert.ErrorIs(t, store.Set(ctx, "users", "[]"), ErrStoreClosed)
		assert.ErrorIs(t, store.Delete(ctx, "users"), ErrStoreClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		require.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
