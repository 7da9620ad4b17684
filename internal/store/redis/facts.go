package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// GetString returns the fact value, "" when it was never written
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, FactKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get fact %s: %w", key, err)
	}
	return value, nil
}

// GetBool reads a fact as a boolean; missing or unparsable values are false
func (s *Store) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.GetString(ctx, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return b, nil
}

// SetString stores a fact without expiry
func (s *Store) SetString(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, FactKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save fact %s: %w", key, err)
	}
	return nil
}
