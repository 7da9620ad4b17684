package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/domain"
)

// SaveBookmarks upserts bookmarks in one transaction. An existing id
// keeps its original position.
func (s *Store) SaveBookmarks(ctx context.Context, bookmarks []*domain.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	for _, b := range bookmarks {
		if b.ID == "" {
			b.ID = domain.GenerateID(b)
		}
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", b.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bookmarks (id, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			b.ID, string(data), now)
		if err != nil {
			return fmt.Errorf("failed to save bookmark %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bookmarks: %w", err)
	}
	return nil
}

// LoadBookmarks returns every stored bookmark in insertion order.
func (s *Store) LoadBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM bookmarks ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]*domain.Bookmark, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			// Skip rows that couldn't be decoded
			continue
		}
		bookmarks = append(bookmarks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return bookmarks, nil
}
