package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SaveBookmarks stores imported bookmarks in Redis (bulk operation).
// IDs derive from the host identity so saving the same host twice
// overwrites one entry and keeps its original position.
func (s *Store) SaveBookmarks(ctx context.Context, bookmarks []*domain.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	base := float64(time.Now().UnixNano())

	for i, bookmark := range bookmarks {
		if bookmark.ID == "" {
			bookmark.ID = domain.GenerateID(bookmark)
		}
		data, err := json.Marshal(bookmark)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", bookmark.ID, err)
		}

		pipe.Set(ctx, BookmarkKey(bookmark.ID), data, 0)
		pipe.ZAddNX(ctx, BookmarkOrderKey(), redis.Z{Score: base + float64(i), Member: bookmark.ID})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

// getBookmark retrieves a bookmark from Redis by ID
func (s *Store) getBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("bookmark not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &bookmark, nil
}

// LoadBookmarks returns every stored bookmark in insertion order
func (s *Store) LoadBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	ids, err := s.client.ZRange(ctx, BookmarkOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		bookmark, err := s.getBookmark(ctx, id)
		if err != nil {
			// Skip bookmarks that couldn't be retrieved
			continue
		}
		bookmarks = append(bookmarks, bookmark)
	}
	return bookmarks, nil
}
