package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error targets for errors.Is.
var (
	// ErrNetwork matches every NetworkError.
	ErrNetwork = errors.New("network error")

	// ErrStorage matches every StorageError.
	ErrStorage = errors.New("storage error")

	// ErrUserNotFound matches a NetworkError caused by a 404 on a user lookup.
	ErrUserNotFound = errors.New("user not found")
)

// NetworkError is a transport failure, a non-2xx response or an undecodable
// response body from the remote directory.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: unexpected status %d %s", e.Op, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: network error", e.Op, e.URL)
	}
}

// Unwrap implements errors.Unwrap.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	return target == ErrUserNotFound && e.StatusCode == http.StatusNotFound
}

// NewNetworkError creates a NetworkError.
func NewNetworkError(op, url string, statusCode int, err error) *NetworkError {
	return &NetworkError{Op: op, URL: url, StatusCode: statusCode, Err: err}
}

// StorageError is a failure reading or writing persisted state.
type StorageError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError creates a StorageError.
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}
