package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_dashboard/internal/config"
	symbolentity "stock_dashboard/internal/feature/symbollist/domain/entity"
	"stock_dashboard/internal/platform/db"
	infraredis "stock_dashboard/internal/platform/redis"
)

// OpenRedis returns a connected client, or nil when Redis is not configured or unreachable.
// Callers run without the cache in that case.
func OpenRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	rc := infraredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
	}
	if !rc.Enabled() {
		slog.Info("Redis not configured, running without cache")
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, rc)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		return nil
	}
	return rdb
}

// OpenCatalog opens and migrates the symbol catalog database.
// It returns a nil DB when no driver is configured.
func OpenCatalog(cfg *config.Config) (*gorm.DB, error) {
	dc := db.Config{
		Driver:     cfg.Database.Driver,
		DSN:        cfg.Database.DSN,
		SQLitePath: cfg.Database.SQLitePath,
		RetryFor:   30 * time.Second,
	}
	if !dc.Enabled() {
		return nil, nil
	}
	return db.OpenDB(dc, &symbolentity.Symbol{})
}
