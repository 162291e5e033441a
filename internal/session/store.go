package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a session id is unknown or expired.
var ErrNoSession = errors.New("no active session")

const keyPrefix = "session:"

// Store keeps server-side auth session records in Redis. The cookie only
// carries the opaque session id; the user id lives here.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create issues a fresh session id bound to the user.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	id := uuid.New().String()
	if err := s.rdb.Set(ctx, keyPrefix+id, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id to the owning user id.
func (s *Store) Get(ctx context.Context, id string) (string, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Touch refreshes the sliding expiry. Failures are not fatal to the request.
func (s *Store) Touch(ctx context.Context, id string) error {
	return s.rdb.Expire(ctx, keyPrefix+id, s.ttl).Err()
}

// Destroy invalidates a session, used on logout.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Ping verifies Redis connectivity, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
