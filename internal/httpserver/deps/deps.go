package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/index"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

// ImportService is the part of the importer the control plane drives.
type ImportService interface {
	Skip(ctx context.Context, src importer.Source) error
	Reset(ctx context.Context, src importer.Source) error
	Status(ctx context.Context, src importer.Source) (importer.Fact, error)
}

// ResultSource exposes the outcome of the latest scheduled run.
type ResultSource interface {
	LastResult(bundleID string) (*importer.Result, bool)
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedHosts  []string                        // Host headers allowed to access the server
	AllowedCIDRS  []string                        // IPs allowed to access the control endpoints
	TrustProxy    bool                            // true if running behind a trusted reverse proxy
	Importer      ImportService                   // skip / reset / status per source
	Results       ResultSource                    // last run per source, may be nil
	Sources       []importer.Source               // configured third-party sources
	Collection    *index.Collection               // imported bookmarks
	ImportTrigger chan struct{}                   // Channel to trigger a manual import run
	Ping          func(ctx context.Context) error // backend readiness probe, nil means always ready
}
