// Package redis persists import facts, sealed passwords and imported
// bookmarks in Redis so several harbor instances share one state.
package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for facts, secrets and bookmarks
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
