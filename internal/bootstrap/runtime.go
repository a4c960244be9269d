// Package bootstrap wires the process-level dependencies shared by every command.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs migrations according to DB_SCHEMA_MODE.
	ApplySchema bool
	// SkipRedis leaves the cache and pub/sub disabled.
	SkipRedis bool
}

// Runtime is what a command needs to talk to storage.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Media *storage.LocalStore
}

// InitRuntime connects to the database and Redis and opens the media store.
// An unreachable Redis leaves Redis nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	var rdb *redis.Client
	if !opts.SkipRedis {
		cache.InitRedis(cfg.RedisURL)
		rdb = cache.GetClient()
	}

	media, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("open media store: %w", err)
	}

	return &Runtime{DB: db, Redis: rdb, Media: media}, nil
}

// Close releases the database and Redis connections.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	if sqlDB, err := r.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			middleware.Logger.Warn("error closing database", slog.String("error", err.Error()))
		}
	}
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			middleware.Logger.Warn("error closing redis", slog.String("error", err.Error()))
		}
		cache.SetClient(nil)
	}
}
