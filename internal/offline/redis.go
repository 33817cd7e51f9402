package offline

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "forum:offline:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisStore(url string, ttl time.Duration) (*redisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	return &redisStore{client: redis.NewClient(opts), ttl: ttl}, nil
}

func redisKey(ns, key string) string {
	return redisPrefix + ns + ":" + key
}

func (s *redisStore) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, redisKey(ns, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, ns, key string, value []byte) error {
	return s.client.Set(ctx, redisKey(ns, key), value, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, ns, key string) error {
	return s.client.Del(ctx, redisKey(ns, key)).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
