// internal/session/redis.go
//
// Redis-backed Store.
//
// Records are JSON blobs under "session:{id}" with a TTL.  The client is
// pinged at construction so a misconfigured address fails at boot, not
// on the first shopper.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
}

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects, pings, and returns a Redis-backed Store.
func NewRedis(ctx context.Context, opts RedisOptions) (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session redis ping: %w", err)
	}
	return &redisStore{rdb: rdb}, nil
}

func key(id string) string { return "session:" + id }

func (s *redisStore) Load(ctx context.Context, id string) (*Record, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session load %s: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session decode %s: %w", id, err)
	}
	return &rec, nil
}

func (s *redisStore) Save(ctx context.Context, id string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", id, err)
	}
	if err := s.rdb.Set(ctx, key(id), raw, DefaultTTL).Err(); err != nil {
		return fmt.Errorf("session save %s: %w", id, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("session delete %s: %w", id, err)
	}
	return nil
}
