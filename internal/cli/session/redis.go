package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lvyanru/actctl/internal/config"
)

const redisOpTimeout = 3 * time.Second

// RedisStore keeps the token under a single redis key, for clients that share
// one login across hosts
type RedisStore struct {
	mu     sync.Mutex
	client *redis.Client
	key    string
}

// NewRedisStore connects using cfg.URL when set, otherwise cfg.Addr
func NewRedisStore(cfg config.RedisConfig, key string) (*RedisStore, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	return NewRedisStoreWithClient(redis.NewClient(opts), key), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Get reads the token. Redis errors are logged and reported as no token.
func (s *RedisStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to read token from redis", "key", s.key, "error", err)
		}
		return "", false
	}
	return token, token != ""
}

// Set stores the token without expiry; the server decides when it expires
func (s *RedisStore) Set(token string) error {
	if token == "" {
		return errEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}
	return nil
}

// Remove deletes the key
func (s *RedisStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to remove token from redis: %w", err)
	}
	return nil
}

// Has reports whether a token is stored
func (s *RedisStore) Has() bool {
	_, ok := s.Get()
	return ok
}

// Close releases the redis connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
