package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/harbor/internal/config"
	"github.com/MrSnakeDoc/harbor/internal/domain"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/MrSnakeDoc/harbor/internal/redis"
	"github.com/MrSnakeDoc/harbor/internal/secret"
	redisstore "github.com/MrSnakeDoc/harbor/internal/store/redis"
	"github.com/MrSnakeDoc/harbor/internal/store/sqlite"
)

// BookmarkStore persists admitted bookmarks and reads them back on start.
type BookmarkStore interface {
	SaveBookmarks(ctx context.Context, bookmarks []*domain.Bookmark) error
	LoadBookmarks(ctx context.Context) ([]*domain.Bookmark, error)
}

// Backend groups the stores of the configured storage backend.
type Backend struct {
	Name      string
	Facts     importer.FactStore
	Secrets   importer.SecretStore
	Bookmarks BookmarkStore
	Ping      func(ctx context.Context) error
	close     func() error
}

// Close releases the backend connection.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend connects the backend selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	sealer, err := secret.NewSealer(cfg.SecretKey, cfg.SecretSalt)
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		log.Info("sqlite backend initialized", logger.String("dir", cfg.DataDir))
		return &Backend{
			Name:      config.BackendSQLite,
			Facts:     store,
			Secrets:   store.Keychain(sealer),
			Bookmarks: store,
			Ping:      store.Ping,
			close:     store.Close,
		}, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		store := redisstore.NewStore(client)
		return &Backend{
			Name:      config.BackendRedis,
			Facts:     store,
			Secrets:   redisstore.NewKeychain(client, sealer),
			Bookmarks: store,
			Ping: func(ctx context.Context) error {
				return redis.Ping(ctx, client, cfg.RedisPingTimeout)
			},
			close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
