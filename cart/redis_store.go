package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// RedisStore keeps each cart as a JSON envelope under Key(owner). Every
// save refreshes the TTL; a zero TTL keeps carts forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *RedisStore) Load(ctx context.Context, owner string) (Snapshot, error) {
	data, err := r.client.Get(ctx, Key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis get failed: %w", err)
	}
	return decode(data)
}

func (r *RedisStore) Save(ctx context.Context, owner string, snapshot Snapshot) error {
	data, err := encode(snapshot)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, Key(owner), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, owner string) error {
	if err := r.client.Del(ctx, Key(owner)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
