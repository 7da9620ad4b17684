// Package sources holds the third-party client formats bookmarks can be
// imported from. Each client lives in its own sub-package and is described
// declaratively by a Format.
package sources

import (
	"io"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

// Format is a table-driven importer.Source.
type Format struct {
	ID       string
	Title    string
	Path     string
	Record   importer.RecordSpec
	Default  domain.Protocol
	Codes    map[int]domain.Protocol
	Equality func(a, b *domain.Bookmark) bool
}

var _ importer.Source = (*Format)(nil)

func (f *Format) BundleID() string { return f.ID }
func (f *Format) Name() string     { return f.Title }
func (f *Format) Location() string { return f.Path }

func (f *Format) DefaultProtocol() domain.Protocol { return f.Default }

func (f *Format) Parse(r io.Reader, log logger.Logger) ([]*importer.RawRecord, error) {
	return f.Record.Collect(r, log)
}

func (f *Format) Protocol(code int) (domain.Protocol, bool) {
	p, ok := f.Codes[code]
	return p, ok
}

func (f *Format) Equal(a, b *domain.Bookmark) bool {
	if f.Equality != nil {
		return f.Equality(a, b)
	}
	return domain.SameHost(a, b)
}

// Lookup returns the source with the given bundle id.
func Lookup(all []importer.Source, bundleID string) (importer.Source, bool) {
	for _, src := range all {
		if src.BundleID() == bundleID {
			return src, true
		}
	}
	return nil, false
}
