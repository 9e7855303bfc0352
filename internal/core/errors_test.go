package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkError(t *testing.T) {
	t.Run("matches ErrNetwork", func(t *testing.T) {
		err := NewNetworkError("GET", "https://api.github.com/users/x", http.StatusBadGateway, nil)
		assert.True(t, errors.Is(err, ErrNetwork))
		assert.False(t, errors.Is(err, ErrUserNotFound))
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("404 matches ErrUserNotFound", func(t *testing.T) {
		err := NewNetworkError("GET", "https://api.github.com/users/ghost", http.StatusNotFound, nil)
		assert.True(t, errors.Is(err, ErrUserNotFound))
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("lookup: %w", NewNetworkError("GET", "u", 0, cause))
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrNetwork))

		var netErr *NetworkError
		assert.True(t, errors.As(err, &netErr))
		assert.Equal(t, "u", netErr.URL)
	})
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("write", "users", cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, `failed to write "users": disk full`, err.Error())
}
