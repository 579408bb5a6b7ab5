package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/paygate-demo-go/internal/shortlink"
)

// RedisStore is a Redis implementation of shortlink.Repository. Links are
// stored as JSON under prefixed string keys with no expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) Save(ctx context.Context, link *shortlink.Link) error {
	payload, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.prefix+link.Code, payload, 0).Err()
}

func (r *RedisStore) GetByCode(ctx context.Context, code string) (*shortlink.Link, error) {
	payload, err := r.client.Get(ctx, r.prefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	var link shortlink.Link
	if err := json.Unmarshal(payload, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (r *RedisStore) Exists(ctx context.Context, code string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+code).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}
