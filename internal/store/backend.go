package store

import (
	"context"
)

// Backend is the key-value storage underneath the state store. Get reports
// found=false for missing keys rather than an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	// UsersKey holds the login directory.
	UsersKey = "medMinderUsers"
	// CurrentUserKey holds the logged-in user pointer.
	CurrentUserKey = "medMinderCurrentUser"

	statePrefix = "medMinderState:"
)

// StateKey returns the key of one user's state blob.
func StateKey(userID string) string {
	return statePrefix + userID
}
