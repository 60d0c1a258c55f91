package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	apperrors "github.com/acme/voice-dialer/pkg/errors"
)

const keyPrefix = "dialer:asset:"

// RedisStore keeps assets in Redis. An optional TTL bounds retention for
// deployments that do not want process-lifetime accumulation.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a store over the given client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores data under name. Content type rides along under a sibling key so
// Get can serve the blob back verbatim.
func (s *RedisStore) Put(ctx context.Context, name, contentType string, data []byte) error {
	if name == "" {
		return fmt.Errorf("asset store: %w: empty name", apperrors.ErrValidation)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+name, data, s.ttl)
	pipe.Set(ctx, keyPrefix+name+":type", contentType, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("asset store: put %q: %w", name, err)
	}
	return nil
}

// Get returns the stored bytes and content type for name.
func (s *RedisStore) Get(ctx context.Context, name string) ([]byte, string, error) {
	data, err := s.client.Get(ctx, keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, "", fmt.Errorf("asset store: %q: %w", name, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("asset store: get %q: %w", name, err)
	}
	contentType, err := s.client.Get(ctx, keyPrefix+name+":type").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, "", fmt.Errorf("asset store: get %q type: %w", name, err)
	}
	return data, contentType, nil
}
