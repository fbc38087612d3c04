package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefixes for form instance data.
const (
	viewKeyPrefix    = "authform:view:"
	pendingKeyPrefix = "authform:pending:"
)

// redisStore is a ViewStore backed by Redis, for deployments running more
// than one server process behind a load balancer.
type redisStore struct {
	redis   *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisStore creates a Redis-backed ViewStore. Views expire after ttl of
// inactivity; in-flight marks after lockTTL.
func NewRedisStore(rdb *redis.Client, ttl, lockTTL time.Duration) ViewStore {
	return &redisStore{redis: rdb, ttl: ttl, lockTTL: lockTTL}
}

func (s *redisStore) Load(ctx context.Context, id string) (View, bool, error) {
	data, err := s.redis.Get(ctx, viewKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return View{}, false, nil
	}
	if err != nil {
		return View{}, false, fmt.Errorf("reading view from Redis: %w", err)
	}

	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return View{}, false, fmt.Errorf("unmarshaling view: %w", err)
	}
	return v, true, nil
}

func (s *redisStore) Save(ctx context.Context, id string, v View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling view: %w", err)
	}
	if err := s.redis.Set(ctx, viewKeyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing view in Redis: %w", err)
	}
	return nil
}

func (s *redisStore) AcquireSubmit(ctx context.Context, id string) (bool, error) {
	ok, err := s.redis.SetNX(ctx, pendingKeyPrefix+id, 1, s.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring submit mark in Redis: %w", err)
	}
	return ok, nil
}

func (s *redisStore) ReleaseSubmit(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, pendingKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("releasing submit mark in Redis: %w", err)
	}
	return nil
}
