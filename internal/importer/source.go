package importer

import (
	"context"
	"io"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

// Source is implemented once per third-party client format.
type Source interface {
	// BundleID identifies the client, e.g. "com.crossftp".
	BundleID() string
	// Name is the human readable client name used in comments.
	Name() string
	// Location is the path of the client's bookmark file.
	Location() string
	// Parse turns the file content into raw records.
	Parse(r io.Reader, log logger.Logger) ([]*RawRecord, error)
	// DefaultProtocol applies when the record has no usable code.
	DefaultProtocol() domain.Protocol
	// Protocol maps a source protocol code; ok is false for unknown codes.
	Protocol(code int) (domain.Protocol, bool)
	// Equal is the duplicate notion used inside one import batch.
	Equal(a, b *domain.Bookmark) bool
}

// SecretStore keeps passwords out of bookmarks.
type SecretStore interface {
	Put(ctx context.Context, scheme string, port int, hostname, username, password string) error
}

// Localizer renders user-facing strings.
type Localizer interface {
	Format(key string, args ...any) string
}

// Persister stores the bookmarks an import admitted into the destination.
type Persister interface {
	SaveBookmarks(ctx context.Context, bookmarks []*domain.Bookmark) error
}
