package importer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/i18n"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/sources"
	"github.com/MrSnakeDoc/harbor/internal/sources/filezilla"
)

// memFacts is an in-memory FactStore counting writes.
type memFacts struct {
	mu     sync.Mutex
	values map[string]string
	writes int
	err    error
}

func newMemFacts() *memFacts {
	return &memFacts{values: make(map[string]string)}
}

func (m *memFacts) GetBool(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	b, _ := strconv.ParseBool(m.values[key])
	return b, nil
}

func (m *memFacts) GetString(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *memFacts) SetString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	m.writes++
	return nil
}

type putCall struct {
	scheme   string
	port     int
	hostname string
	username string
	password string
}

// memSecrets records every Put.
type memSecrets struct {
	mu    sync.Mutex
	calls []putCall
	err   error
}

func (m *memSecrets) Put(_ context.Context, scheme string, port int, hostname, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, putCall{scheme, port, hostname, username, password})
	return m.err
}

type memPersister struct {
	saved []*domain.Bookmark
	err   error
}

func (m *memPersister) SaveBookmarks(_ context.Context, bookmarks []*domain.Bookmark) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, bookmarks...)
	return nil
}

// racingPersister adds an equal host from another source to dest while
// saving, the way a concurrent import would.
type racingPersister struct {
	dest  *index.Collection
	saved []*domain.Bookmark
	added bool
}

func (r *racingPersister) SaveBookmarks(_ context.Context, bookmarks []*domain.Bookmark) error {
	r.saved = append(r.saved, bookmarks...)
	for _, b := range bookmarks {
		other := *b
		other.Source = filezilla.BundleID
		other.Comment = "Imported from FileZilla"
		if r.dest.Add(&other) {
			r.added = true
		}
	}
	return nil
}

// idPersister keeps the last saved copy per ID, like the real backends.
type idPersister struct {
	mu   sync.Mutex
	byID map[string]domain.Bookmark
}

func newIDPersister() *idPersister {
	return &idPersister{byID: make(map[string]domain.Bookmark)}
}

func (p *idPersister) SaveBookmarks(_ context.Context, bookmarks []*domain.Bookmark) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range bookmarks {
		p.byID[b.ID] = *b
	}
	return nil
}

func (p *idPersister) get(id string) (domain.Bookmark, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.byID[id]
	return b, ok
}

func (p *idPersister) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byID)
}

// deniedSource fails parsing with a permission error.
type deniedSource struct {
	*sources.Format
}

func (deniedSource) Parse(io.Reader, logger.Logger) ([]*importer.RawRecord, error) {
	return nil, fmt.Errorf("%w: sites.xml", importer.ErrAccessDenied)
}

var errBoom = errors.New("boom")

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func warnCount(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zapcore.WarnLevel).Len()
}

type fixture struct {
	facts   *memFacts
	secrets *memSecrets
	logs    *observer.ObservedLogs
	im      *importer.Importer
}

func newFixture(t *testing.T, opts ...importer.Option) *fixture {
	t.Helper()
	log, logs := observedLogger()
	facts := newMemFacts()
	secrets := &memSecrets{}
	return &fixture{
		facts:   facts,
		secrets: secrets,
		logs:    logs,
		im:      importer.New(facts, secrets, i18n.New("en"), log, opts...),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func sitesXML(sites ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?>` + "\n<sites>\n"
	for _, s := range sites {
		out += "  " + s + "\n"
	}
	return out + "</sites>\n"
}
