package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores a namespace as one redis hash, refreshed with a TTL on every write.
type RedisBackend struct {
	client   *redis.Client
	key      string
	capacity int
	ttl      time.Duration
}

func NewRedisBackend(client *redis.Client, namespace string, capacity int, ttl time.Duration) *RedisBackend {
	return &RedisBackend{
		client:   client,
		key:      fmt.Sprintf("storage:session:%s", namespace),
		capacity: capacity,
		ttl:      ttl,
	}
}

// RedisFactory builds RedisBackends sharing one client.
func RedisFactory(client *redis.Client, capacity int, ttl time.Duration) BackendFactory {
	return func(namespace string) Backend {
		return NewRedisBackend(client, namespace, capacity, ttl)
	}
}

func (r *RedisBackend) Available(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.HGet(ctx, r.key, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return err
	}
	used := 0
	for k, v := range all {
		if k == key {
			continue
		}
		used += entrySize(k, v)
	}
	if r.capacity > 0 && used+entrySize(key, value) > r.capacity {
		return ErrQuotaExceeded
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	return r.client.HDel(ctx, r.key, key).Err()
}

func (r *RedisBackend) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.client.HKeys(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *RedisBackend) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
