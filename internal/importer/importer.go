// Package importer brings bookmarks of third-party clients into a
// collection. An import is gated by a content checksum stored in a fact
// store, so running it on every start is cheap and never duplicates hosts.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/markup"
)

// ErrAccessDenied is returned when the source file cannot be opened for
// lack of permission.
var ErrAccessDenied = errors.New("access denied")

// State is the outcome of the checksum gate.
type State string

const (
	StateNoFile      State = "no_file"
	StateUnreadable  State = "unreadable"
	StateFirstImport State = "first_import"
	StateUnchanged   State = "unchanged"
	StateSkipped     State = "skipped"
	StateChanged     State = "changed"
)

// Result summarizes one import run.
type Result struct {
	RunID    string `json:"run_id"`
	Source   string `json:"source"`
	Location string `json:"location"`
	State    State  `json:"state"`
	Checksum string `json:"checksum,omitempty"`

	AccessDenied bool `json:"access_denied,omitempty"`
	Malformed    bool `json:"malformed,omitempty"`

	Records    int `json:"records"`
	Rejected   int `json:"rejected"`
	Duplicates int `json:"duplicates"`

	Admitted []*domain.Bookmark `json:"admitted"`
}

// Importer runs the import pipeline for any Source.
type Importer struct {
	facts      FactStore
	normalizer *Normalizer
	persister  Persister
	logger     logger.Logger

	locks sync.Map // bundle id -> *sync.Mutex
}

// Option configures an Importer.
type Option func(*Importer)

// WithPersister stores admitted bookmarks. When saving fails they are
// taken out of the destination again.
func WithPersister(p Persister) Option {
	return func(im *Importer) {
		im.persister = p
	}
}

// New creates an importer.
func New(facts FactStore, secrets SecretStore, localizer Localizer, log logger.Logger, opts ...Option) *Importer {
	im := &Importer{
		facts:      facts,
		normalizer: NewNormalizer(secrets, localizer, log),
		logger:     log,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import runs the checksum gate for src and, when needed, parses the
// file and appends new bookmarks to dest. Bookmarks dest already contains
// are always filtered out before anything is persisted.
//
// Missing, unreadable or malformed files are reported through Result and
// logs, never as an error. Errors come only from the fact store, the
// secret store or the persister, and in that case the fact is left as it
// was so the next run retries.
func (im *Importer) Import(ctx context.Context, src Source, dest *index.Collection) (*Result, error) {
	if dest == nil {
		return nil, fmt.Errorf("import %s: destination collection is nil", src.BundleID())
	}

	unlock := im.lock(src.BundleID())
	defer unlock()

	runID := ulid.Make().String()
	log := im.logger.With(
		logger.String("source", src.BundleID()),
		logger.String("run_id", runID))
	path := src.Location()
	res := &Result{RunID: runID, Source: src.BundleID(), Location: path}

	if !fileExists(path) {
		log.Info("no bookmarks file", logger.String("file", path))
		res.State = StateNoFile
		return res, nil
	}
	log.Info("found bookmarks file", logger.String("file", path))

	current, err := ChecksumFile(path)
	if err != nil {
		log.Warn("failure obtaining checksum",
			logger.String("file", path),
			logger.Error(err))
		res.State = StateUnreadable
		return res, nil
	}
	res.Checksum = current
	log.Debug("current checksum", logger.String("checksum", current))

	fact, err := LoadFact(ctx, im.facts, src.BundleID())
	if err != nil {
		return res, fmt.Errorf("import %s: %w", src.BundleID(), err)
	}

	switch {
	case !fact.Imported:
		res.State = StateFirstImport
	case fact.Checksum == "":
		log.Debug("skip importing bookmarks, source flagged as skipped",
			logger.String("file", path))
		res.State = StateSkipped
		return res, nil
	case fact.Checksum == current:
		log.Info("skip importing bookmarks with previously saved checksum",
			logger.String("file", path),
			logger.String("checksum", fact.Checksum))
		res.State = StateUnchanged
		return res, nil
	default:
		log.Info("checksum changed for bookmarks file",
			logger.String("file", path),
			logger.String("previous", fact.Checksum),
			logger.String("current", current))
		res.State = StateChanged
	}

	records, err := im.parse(src, path, log)
	switch {
	case errors.Is(err, ErrAccessDenied):
		log.Warn("failure reading collection",
			logger.String("file", path),
			logger.Error(err))
		res.AccessDenied = true
		records = nil
	case errors.Is(err, markup.ErrMalformed):
		log.Warn("malformed bookmarks file, keeping records parsed so far",
			logger.String("file", path),
			logger.Int("records", len(records)),
			logger.Error(err))
		res.Malformed = true
	case err != nil:
		log.Warn("failure reading bookmarks file",
			logger.String("file", path),
			logger.Error(err))
		res.State = StateUnreadable
		return res, nil
	}

	admitted, err := im.admit(ctx, src, records, dest, res, log)
	if err != nil {
		return res, fmt.Errorf("import %s: %w", src.BundleID(), err)
	}
	res.Admitted = admitted

	if current != "" {
		if err := SaveFact(ctx, im.facts, src.BundleID(), Fact{Imported: true, Checksum: current}); err != nil {
			return res, fmt.Errorf("import %s: %w", src.BundleID(), err)
		}
	}

	log.Info("bookmarks import finished",
		logger.String("state", string(res.State)),
		logger.Int("records", res.Records),
		logger.Int("admitted", len(res.Admitted)),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("rejected", res.Rejected))

	return res, nil
}

// Skip flags src as explicitly declined: imported, with a blank checksum.
func (im *Importer) Skip(ctx context.Context, src Source) error {
	unlock := im.lock(src.BundleID())
	defer unlock()

	if err := SaveFact(ctx, im.facts, src.BundleID(), Fact{Imported: true}); err != nil {
		return fmt.Errorf("skip %s: %w", src.BundleID(), err)
	}
	im.logger.Info("bookmarks import skipped", logger.String("source", src.BundleID()))
	return nil
}

// Reset forgets everything about src so the next run is a first import.
func (im *Importer) Reset(ctx context.Context, src Source) error {
	unlock := im.lock(src.BundleID())
	defer unlock()

	if err := SaveFact(ctx, im.facts, src.BundleID(), Fact{}); err != nil {
		return fmt.Errorf("reset %s: %w", src.BundleID(), err)
	}
	im.logger.Info("bookmarks import state reset", logger.String("source", src.BundleID()))
	return nil
}

// Status returns the stored fact of src.
func (im *Importer) Status(ctx context.Context, src Source) (Fact, error) {
	return LoadFact(ctx, im.facts, src.BundleID())
}

func (im *Importer) parse(src Source, path string, log logger.Logger) ([]*RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return src.Parse(f, log)
}

// admit normalizes records, drops duplicates and appends the survivors.
func (im *Importer) admit(
	ctx context.Context,
	src Source,
	records []*RawRecord,
	dest *index.Collection,
	res *Result,
	log logger.Logger,
) ([]*domain.Bookmark, error) {
	batch := index.NewCollection(src.Equal)

	for _, raw := range records {
		res.Records++
		b, err := im.normalizer.Normalize(ctx, raw, src)
		if err != nil {
			return nil, err
		}
		if b == nil {
			res.Rejected++
			continue
		}
		if !batch.Add(b) {
			log.Debug("duplicate bookmark within file", logger.String("bookmark", b.String()))
			res.Duplicates++
		}
	}

	for _, b := range batch.Filter(dest) {
		log.Info("remove bookmark from import as we found it in bookmarks",
			logger.String("bookmark", b.String()))
		res.Duplicates++
	}

	survivors := batch.All()
	if len(survivors) == 0 {
		return []*domain.Bookmark{}, nil
	}

	// Another source may have added an equal host since Filter, so only
	// what AddAll actually admitted is persisted.
	admitted := dest.AddAll(survivors)
	res.Duplicates += len(survivors) - len(admitted)
	if len(admitted) == 0 || im.persister == nil {
		return admitted, nil
	}

	if err := im.persister.SaveBookmarks(ctx, admitted); err != nil {
		for _, b := range admitted {
			dest.Remove(b)
		}
		return nil, fmt.Errorf("failed to persist bookmarks: %w", err)
	}
	return admitted, nil
}

func (im *Importer) lock(bundleID string) func() {
	v, _ := im.locks.LoadOrStore(bundleID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
