package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/config"
	"github.com/MrSnakeDoc/harbor/internal/httpserver"
	"github.com/MrSnakeDoc/harbor/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harbor/internal/i18n"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/scheduler"
	"github.com/MrSnakeDoc/harbor/internal/sources"
	"github.com/MrSnakeDoc/harbor/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	backend       *Backend
	importer      *importer.Importer
	collection    *index.Collection
	sources       []importer.Source
	scheduler     *scheduler.ImportScheduler
	importTrigger chan struct{}
}

// New wires the importer on top of the configured backend and loads the
// persisted bookmarks into memory.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	prefs, err := config.LoadPreferences(cfg.PreferencesFile)
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	collection := index.NewCollection(nil)
	syncer := scheduler.NewBookmarkSync(backend.Bookmarks, collection, loggerClient)
	if err := syncer.Sync(ctx); err != nil {
		loggerClient.Warn("failed to sync bookmarks on startup, starting empty",
			logger.Error(err))
	}

	localizer := i18n.New(cfg.Lang)
	loggerClient.Debug("localizer initialized",
		logger.String("lang", localizer.Language().String()))

	imp := importer.New(backend.Facts, backend.Secrets, localizer, loggerClient,
		importer.WithPersister(backend.Bookmarks))

	srcs := Sources(prefs)
	trigger := make(chan struct{}, 1)
	sched := scheduler.NewImportScheduler(imp, srcs, collection, loggerClient,
		cfg.ImportInterval, cfg.ImportOnStart, trigger)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		backend:       backend,
		importer:      imp,
		collection:    collection,
		sources:       srcs,
		scheduler:     sched,
		importTrigger: trigger,
	}, nil
}

// Sources returns the configured sources.
func (a *App) Sources() []importer.Source { return a.sources }

// Source looks a source up by bundle id.
func (a *App) Source(bundleID string) (importer.Source, error) {
	src, ok := sources.Lookup(a.sources, bundleID)
	if !ok {
		return nil, fmt.Errorf("unknown source %q", bundleID)
	}
	return src, nil
}

// Collection is the in-memory bookmark collection imports append to.
func (a *App) Collection() *index.Collection { return a.collection }

// Importer exposes the orchestrator for one-shot commands.
func (a *App) Importer() *importer.Importer { return a.importer }

// ImportAll runs every source once.
func (a *App) ImportAll(ctx context.Context) ([]*importer.Result, error) {
	return a.scheduler.RunOnce(ctx)
}

// Close releases the backend.
func (a *App) Close() error {
	return a.backend.Close()
}

// Serve runs the scheduler and the HTTP control plane until SIGINT/SIGTERM.
func (a *App) Serve() error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.scheduler.Start(ctx)
	a.logger.Info("import scheduler started",
		logger.Duration("interval", a.cfg.ImportInterval),
		logger.Int("sources", len(a.sources)))

	d := deps.Deps{
		Logger:        a.logger,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedHosts:  a.cfg.AllowedHosts,
		AllowedCIDRS:  a.cfg.AllowedCIDRS,
		TrustProxy:    a.cfg.TrustProxy,
		Importer:      a.importer,
		Results:       a.scheduler,
		Sources:       a.sources,
		Collection:    a.collection,
		ImportTrigger: a.importTrigger,
		Ping:          a.backend.Ping,
	}
	server := httpserver.New(a.cfg, a.logger, d)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.scheduler.Stop()
		return err
	}

	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Harbor stopped cleanly")
	return nil
}
