// Package redis keeps session records as plain Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantiva/dashboard/internal/core/domain"
)

const (
	defaultKeyPrefix   = "quantiva:"
	defaultDialTimeout = 5 * time.Second
)

// Config selects the Redis server and the namespace of the record keys.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix defaults to "quantiva:".
	Prefix  string
	Timeout time.Duration
}

// RecordStorage stores each record under <prefix><key> without expiry.
type RecordStorage struct {
	client *redis.Client
	prefix string
}

// Open dials Redis and refuses to hand out a store the server does not
// answer for.
func Open(ctx context.Context, cfg Config) (*RecordStorage, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDialTimeout
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultKeyPrefix
	}

	s := &RecordStorage{
		client: redis.NewClient(&redis.Options{
			Addr:        cfg.Addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: cfg.Timeout,
		}),
		prefix: cfg.Prefix,
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = s.client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return s, nil
}

func (s *RecordStorage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, domain.ErrRecordNotFound
	case err != nil:
		return nil, fmt.Errorf("redis get record: %w", err)
	}
	return val, nil
}

func (s *RecordStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set record: %w", err)
	}
	return nil
}

// Delete is a no-op for absent keys; DEL reports zero removed keys, not an error.
func (s *RecordStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete record: %w", err)
	}
	return nil
}

func (s *RecordStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RecordStorage) Close() error {
	return s.client.Close()
}
