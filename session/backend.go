package session

import (
	"context"
	"errors"
)

var (
	// ErrRedisUnavailable wraps Redis transport and server failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrEmptyToken is returned when saving a session without a bearer token.
	ErrEmptyToken = errors.New("empty session token")
	// ErrNoSessionID is returned when writing through a handle without a session ID.
	ErrNoSessionID = errors.New("missing session id")
)

// Backend persists the two session slots for many browsers, keyed by session ID.
//
// Put must make both slots visible together; Delete must remove both and is idempotent.
// Get reports found=false when no token slot exists. roles is nil when the roles slot
// is missing.
type Backend interface {
	Put(ctx context.Context, id, token string, roles []byte) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (token string, roles []byte, found bool, err error)
}
