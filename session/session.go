// Package session owns the authentication state of the client: which user is
// logged in, with which credentials, and how those credentials are persisted,
// restored and refreshed.
package session

import (
	"github.com/safaltravel/marketctl/users"
)

// TokenPair is the credential pair returned by a refresh exchange.
// RefreshToken is empty when the backend did not rotate it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Snapshot is the read-only view of the session handed to the route guard
// and the view layer. Loading is true only between construction and the
// first completed Restore.
type Snapshot struct {
	User    *users.User
	Loading bool
}

// LoggedIn reports whether a user is present in the snapshot.
func (s Snapshot) LoggedIn() bool {
	return s.User != nil
}
