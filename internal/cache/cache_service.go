package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is the distributed cache boundary. The artwork core only ever
// deletes keys; Set/Get exist for the read paths that populate them.
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Missing key is not an error by redis convention.
		return "", nil
	}
	return val, err
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
