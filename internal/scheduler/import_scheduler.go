package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

// Runner imports one source into a collection.
type Runner interface {
	Import(ctx context.Context, src importer.Source, dest *index.Collection) (*importer.Result, error)
}

// ImportScheduler runs every source periodically and on demand
type ImportScheduler struct {
	runner        Runner
	sources       []importer.Source
	dest          *index.Collection
	logger        logger.Logger
	interval      time.Duration
	runOnStart    bool
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	runMu  sync.Mutex // serializes runs
	lastMu sync.RWMutex
	last   map[string]*importer.Result
}

// NewImportScheduler creates a new import scheduler
func NewImportScheduler(
	runner Runner,
	sources []importer.Source,
	dest *index.Collection,
	log logger.Logger,
	interval time.Duration,
	runOnStart bool,
	manualTrigger chan struct{},
) *ImportScheduler {
	return &ImportScheduler{
		runner:        runner,
		sources:       sources,
		dest:          dest,
		logger:        log,
		interval:      interval,
		runOnStart:    runOnStart,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		last:          make(map[string]*importer.Result),
	}
}

// Start begins the periodic import process
func (s *ImportScheduler) Start(ctx context.Context) {
	if s.runOnStart {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("initial import failed", logger.Error(err))
		}
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-s.manualTrigger:
				s.logger.Info("manual import triggered")
				s.run(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the scheduler; it is safe to call more than once
func (s *ImportScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *ImportScheduler) run(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("import run failed", logger.Error(err))
	}
}

// RunOnce imports every source concurrently and returns the results in
// source order. A failing source does not stop the others; the first
// error is returned after all of them finished.
func (s *ImportScheduler) RunOnce(ctx context.Context) ([]*importer.Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	results := make([]*importer.Result, len(s.sources))
	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			res, err := s.runner.Import(ctx, src, s.dest)
			if err != nil {
				s.logger.Error("failed to import bookmarks",
					logger.String("source", src.BundleID()),
					logger.Error(err))
			}
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	for _, res := range results {
		if res != nil {
			s.last[res.Source] = res
		}
	}
	return results, err
}

// LastResult returns the latest result recorded for a bundle. It does
// not wait for a run in progress.
func (s *ImportScheduler) LastResult(bundleID string) (*importer.Result, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	res, ok := s.last[bundleID]
	return res, ok
}
