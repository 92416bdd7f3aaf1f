package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a Redis [Backend]. Each session occupies two string keys written in one
// MULTI/EXEC transaction.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore returns a Redis-backed store. ttl bounds how long an untouched session
// survives in Redis; zero keeps sessions until logout.
func NewStore(rdb redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "bg"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{
		redis:  rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) tokenKey(id string) string {
	return slotKey(s.prefix, id, tokenSlot)
}

func (s *Store) rolesKey(id string) string {
	return slotKey(s.prefix, id, rolesSlot)
}

// Put writes the token and roles slots atomically, overwriting any prior session.
func (s *Store) Put(ctx context.Context, id, token string, roles []byte) error {
	if id == "" {
		return ErrNoSessionID
	}
	if token == "" {
		return ErrEmptyToken
	}

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(id), token, s.ttl)
		pipe.Set(ctx, s.rolesKey(id), roles, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete removes both slots. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.redis.Del(ctx, s.tokenKey(id), s.rolesKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get reads both slots in one round trip.
func (s *Store) Get(ctx context.Context, id string) (string, []byte, bool, error) {
	if id == "" {
		return "", nil, false, nil
	}

	vals, err := s.redis.MGet(ctx, s.tokenKey(id), s.rolesKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, false, nil
		}
		return "", nil, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(vals) != 2 {
		return "", nil, false, fmt.Errorf("%w: unexpected MGET reply length %d", ErrRedisUnavailable, len(vals))
	}

	token, _ := vals[0].(string)
	if token == "" {
		return "", nil, false, nil
	}

	var roles []byte
	if raw, ok := vals[1].(string); ok {
		roles = []byte(raw)
	}
	return token, roles, true, nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
