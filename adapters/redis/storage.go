// Package redis keeps session state in Redis. Useful when the admin shell
// runs as a shared backend-for-frontend and local files do not survive
// redeploys.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/markap/adminkit/core"
)

const keyPrefix = "markap:state:"

// Storage is a Redis-backed core.Storage.
type Storage struct {
	client *redis.Client
}

var _ core.Storage = (*Storage)(nil)

// New connects a storage to the given Redis instance.
func New(addr, password string, db int) *Storage {
	return &Storage{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewFromClient wraps an existing client, sharing its pool.
func NewFromClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", core.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	// No TTL: session expiry is discovered reactively through a 401, the
	// stored state itself is durable.
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.client.Close()
}
