package rate

import "errors"

var (
	// ErrRateLimited is returned once a key has used its failed-login budget for the window.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps Redis failures. Callers decide whether to fail open.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
