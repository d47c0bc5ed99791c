package dashboard

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStorage keeps every session value as a field of one Redis hash,
// so Clear is a single DEL.
type RedisSessionStorage struct {
	client  *redis.Client
	hashKey string
}

func NewRedisSessionStorage(client *redis.Client, hashKey string) *RedisSessionStorage {
	if hashKey == "" {
		hashKey = "user-console:session"
	}
	return &RedisSessionStorage{client: client, hashKey: hashKey}
}

func (r *RedisSessionStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.HGet(ctx, r.hashKey, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisSessionStorage) Save(ctx context.Context, key string, value []byte) error {
	return r.client.HSet(ctx, r.hashKey, key, value).Err()
}

func (r *RedisSessionStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.hashKey).Err()
}
