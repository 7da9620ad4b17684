package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

// BookmarkLoader reads persisted bookmarks.
type BookmarkLoader interface {
	LoadBookmarks(ctx context.Context) ([]*domain.Bookmark, error)
}

// BookmarkSync loads persisted bookmarks into the collection on startup
type BookmarkSync struct {
	store  BookmarkLoader
	dest   *index.Collection
	logger logger.Logger
}

// NewBookmarkSync creates a new bookmark syncer
func NewBookmarkSync(store BookmarkLoader, dest *index.Collection, log logger.Logger) *BookmarkSync {
	return &BookmarkSync{
		store:  store,
		dest:   dest,
		logger: log,
	}
}

// Sync appends every persisted bookmark the collection lacks
func (bs *BookmarkSync) Sync(ctx context.Context) error {
	bs.logger.Info("syncing bookmarks from store to memory")

	bookmarks, err := bs.store.LoadBookmarks(ctx)
	if err != nil {
		return err
	}

	if len(bookmarks) == 0 {
		bs.logger.Info("no bookmarks found in store")
		return nil
	}

	added := bs.dest.AddAll(bookmarks)

	bs.logger.Info("synced bookmarks from store",
		logger.Int("stored", len(bookmarks)),
		logger.Int("added", len(added)))

	return nil
}
