package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/sources/crossftp"
	"github.com/MrSnakeDoc/harbor/internal/sources/filezilla"
)

type fakeRunner struct {
	calls atomic.Int32
	fail  string
}

func (f *fakeRunner) Import(_ context.Context, src importer.Source, dest *index.Collection) (*importer.Result, error) {
	f.calls.Add(1)
	if src.BundleID() == f.fail {
		return &importer.Result{Source: src.BundleID(), State: importer.StateFirstImport}, errors.New("secret store down")
	}
	dest.Add(domain.NewBookmark(src.DefaultProtocol(), src.BundleID()+".example.net"))
	return &importer.Result{Source: src.BundleID(), State: importer.StateFirstImport}, nil
}

func testSources() []importer.Source {
	return []importer.Source{crossftp.New(""), filezilla.New("")}
}

func TestRunOnce(t *testing.T) {
	runner := &fakeRunner{}
	dest := index.NewCollection(nil)
	s := NewImportScheduler(runner, testSources(), dest, logger.New("error", false), time.Hour, false, nil)

	results, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if len(results) != 2 || results[0].Source != crossftp.BundleID || results[1].Source != filezilla.BundleID {
		t.Fatalf("unexpected results %+v", results)
	}
	if dest.Len() != 2 {
		t.Errorf("expected 2 bookmarks, got %d", dest.Len())
	}
	if _, ok := s.LastResult(filezilla.BundleID); !ok {
		t.Error("expected last result for filezilla")
	}
}

func TestRunOnceKeepsGoingAfterFailure(t *testing.T) {
	runner := &fakeRunner{fail: crossftp.BundleID}
	dest := index.NewCollection(nil)
	s := NewImportScheduler(runner, testSources(), dest, logger.New("error", false), time.Hour, false, nil)

	_, err := s.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected error from failing source")
	}
	if runner.calls.Load() != 2 {
		t.Errorf("expected both sources to run, got %d calls", runner.calls.Load())
	}
	if dest.Len() != 1 {
		t.Errorf("expected filezilla bookmark, got %d", dest.Len())
	}
}

func TestManualTrigger(t *testing.T) {
	runner := &fakeRunner{}
	trigger := make(chan struct{}, 1)
	s := NewImportScheduler(runner, testSources(), index.NewCollection(nil), logger.New("error", false), time.Hour, true, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	if got := runner.calls.Load(); got != 2 {
		t.Fatalf("expected start-up run, got %d calls", got)
	}

	trigger <- struct{}{}
	deadline := time.Now().Add(2 * time.Second)
	for runner.calls.Load() < 4 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := runner.calls.Load(); got != 4 {
		t.Errorf("expected triggered run, got %d calls", got)
	}

	s.Stop()
	s.Stop()
}

type fakeLoader struct {
	bookmarks []*domain.Bookmark
	err       error
}

func (f fakeLoader) LoadBookmarks(context.Context) ([]*domain.Bookmark, error) {
	return f.bookmarks, f.err
}

func TestBookmarkSync(t *testing.T) {
	dest := index.NewCollection(nil)
	existing := domain.NewBookmark(domain.ProtocolFTP, "a.example.net")
	dest.Add(existing)

	loader := fakeLoader{bookmarks: []*domain.Bookmark{
		domain.NewBookmark(domain.ProtocolFTP, "a.example.net"),
		domain.NewBookmark(domain.ProtocolSFTP, "b.example.net"),
	}}

	if err := NewBookmarkSync(loader, dest, logger.New("error", false)).Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if dest.Len() != 2 {
		t.Errorf("expected 2 bookmarks, got %d", dest.Len())
	}
	if dest.All()[0] != existing {
		t.Error("existing bookmark must keep its position")
	}
}

func TestBookmarkSyncError(t *testing.T) {
	loader := fakeLoader{err: errors.New("redis down")}
	err := NewBookmarkSync(loader, index.NewCollection(nil), logger.New("error", false)).Sync(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRunner) Import(_ context.Context, src importer.Source, _ *index.Collection) (*importer.Result, error) {
	b.started <- struct{}{}
	<-b.release
	return &importer.Result{Source: src.BundleID(), State: importer.StateUnchanged}, nil
}

func TestLastResultDoesNotWaitForRun(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewImportScheduler(runner, []importer.Source{crossftp.New("")}, index.NewCollection(nil), logger.New("error", false), time.Hour, false, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.RunOnce(context.Background())
	}()
	<-runner.started

	got := make(chan bool, 1)
	go func() {
		_, ok := s.LastResult(crossftp.BundleID)
		got <- ok
	}()
	select {
	case ok := <-got:
		if ok {
			t.Error("no result expected before the first run finished")
		}
	case <-time.After(time.Second):
		t.Fatal("LastResult blocked behind a running import")
	}

	close(runner.release)
	<-done
	if res, ok := s.LastResult(crossftp.BundleID); !ok || res.State != importer.StateUnchanged {
		t.Errorf("expected recorded result after the run, got %+v, %v", res, ok)
	}
}
