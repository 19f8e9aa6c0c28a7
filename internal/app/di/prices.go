package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/prices/adapters/csvstore"
	"stock_dashboard/internal/feature/prices/usecase"
	"stock_dashboard/internal/platform/cache"
)

// NewPriceTableRepository creates the CSV-backed PriceTableRepository.
// If Redis is available, parsed tables are cached until the next scheduled ingest
// (or redis.ttl when set), and revalidated against the file on every read.
// Otherwise the CSV store is used directly.
func NewPriceTableRepository(cfg *config.Config, rdb *redis.Client) usecase.PriceTableRepository {
	store := csvstore.NewPriceTableCSV(cfg.Data.Dir)
	if rdb == nil {
		return store
	}
	return cache.NewCachingPriceTableRepository(rdb, cacheTTL(cfg), store, "prices")
}

// cacheTTL returns nil when no usable TTL is configured; the cache then uses its default.
func cacheTTL(cfg *config.Config) cache.TTLFunc {
	if cfg.Redis.TTL > 0 {
		return cache.FixedTTL(cfg.Redis.TTL)
	}
	ttl, err := cache.UntilNextRun(cfg.Ingest.Schedule)
	if err != nil {
		slog.Warn("cannot derive cache TTL from ingest schedule, using default", "error", err)
		return nil
	}
	return ttl
}
