package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedis stores entries as plain string keys without expiry.
func NewRedis(client *redis.Client) Backend {
	return &redisBackend{client: client, prefix: "storefront"}
}

func (r *redisBackend) key(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, scope, key)
}

func (r *redisBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisBackend) Set(ctx context.Context, scope, key, value string) error {
	return r.client.Set(ctx, r.key(scope, key), value, 0).Err()
}

func (r *redisBackend) Remove(ctx context.Context, scope string, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(scope, k))
	}
	return r.client.Del(ctx, full...).Err()
}
