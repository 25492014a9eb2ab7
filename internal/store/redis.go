package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hiredesk-session/internal/config"
)

// RedisStore keeps the credential under a single Redis key, for
// deployments where the slot lives off the local disk.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis using the provided configuration.
func NewRedisStore(cfg config.RedisConfig, key string, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisStore{client: client, key: key}
}

// NewRedisStoreWithClient wraps an existing client; used in tests.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Save overwrites the stored credential. The key carries no TTL; expiry
// is the credential's own concern.
func (s *RedisStore) Save(ctx context.Context, credential string) error {
	if err := s.client.Set(ctx, s.key, credential, 0).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load returns the stored credential, or ok=false when none exists.
func (s *RedisStore) Load(ctx context.Context) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load credential: %w", err)
	}
	return val, true, nil
}

// Clear removes the stored credential; clearing an empty store is a no-op.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
