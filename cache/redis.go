package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stremjack/logging"
)

// Redis is an alternate Store backend for deployments that already run a
// redis instance. Expiry is delegated to redis TTLs; capacity is redis's own
// concern, so Max reports 0.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(host string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:6379", host),
		}),
		ttl: ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		logging.Error().Err(err).Msg("Failed to store response in redis")
	}
}

func (r *Redis) Len() int {
	n, err := r.client.DBSize(context.Background()).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

func (r *Redis) Max() int { return 0 }
