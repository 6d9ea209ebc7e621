// Package store provides the persisted key-value store abstraction used to
// keep credentials across process restarts.
package store

import "errors"

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("key not found")

// Auth keys. The session manager is the sole writer of these keys; the
// all-present-or-all-absent invariant is maintained by its write discipline,
// not by the store.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Repo defines the interface for persisted key-value storage.
type Repo interface {
	// Get retrieves the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, overwriting any existing value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases any underlying resources.
	Close() error
}
