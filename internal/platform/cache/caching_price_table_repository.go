// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

// DefaultTTL is used when no TTL function is given or it yields a non-positive duration.
const DefaultTTL = 5 * time.Minute

// TTLFunc returns the expiry for an entry written at now.
type TTLFunc func(now time.Time) time.Duration

// FixedTTL returns a TTLFunc that always yields d.
func FixedTTL(d time.Duration) TTLFunc {
	return func(time.Time) time.Duration { return d }
}

// Versioner is implemented by repositories that can report a cheap fingerprint of a
// symbol's stored table. When the inner repository implements it, cached entries are
// only served while the fingerprint is unchanged, so files replaced or removed outside
// of Save are never served stale.
type Versioner interface {
	Version(ctx context.Context, symbol string) (string, error)
}

// cachedTable is the value stored in Redis.
type cachedTable struct {
	Version string            `json:"version,omitempty"`
	Table   entity.PriceTable `json:"table"`
}

// CachingPriceTableRepository decorates a PriceTableRepository with a Redis read-through cache
// of parsed tables. Listing always goes to the inner repository so it reflects the files
// present at call time. Save invalidates the symbol's entry.
type CachingPriceTableRepository struct {
	inner     usecase.PriceTableRepository
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
	now       func() time.Time
}

var _ usecase.PriceTableRepository = (*CachingPriceTableRepository)(nil)

// NewCachingPriceTableRepository decorates a PriceTableRepository with Redis caching.
// A nil client disables caching. ttl is evaluated on every write; nil means DefaultTTL.
// If namespace is empty, it uses "prices".
func NewCachingPriceTableRepository(rdb *redis.Client, ttl TTLFunc, inner usecase.PriceTableRepository, namespace string) *CachingPriceTableRepository {
	if ttl == nil {
		ttl = FixedTTL(DefaultTTL)
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceTableRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// List delegates to the inner repository; the file listing is never cached.
func (c *CachingPriceTableRepository) List(ctx context.Context) ([]string, error) {
	return c.inner.List(ctx)
}

// Load returns the table from cache, falling back to the inner repository.
// Not-found results are not cached.
func (c *CachingPriceTableRepository) Load(ctx context.Context, symbol string) (entity.PriceTable, error) {
	if c.rdb == nil {
		return c.inner.Load(ctx, symbol)
	}

	key := c.cacheKey(symbol)

	// 0) Fingerprint of the stored table, if the inner repository supports it
	var version string
	if v, ok := c.inner.(Versioner); ok {
		var err error
		version, err = v.Version(ctx, symbol)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				_ = c.rdb.Del(ctx, key).Err()
			}
			return entity.PriceTable{}, err
		}
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var entry cachedTable
		if err := json.Unmarshal(b, &entry); err == nil {
			if entry.Version == version {
				return entry.Table, nil
			}
		} else {
			// Delete corrupted cache entry
			_ = c.rdb.Del(ctx, key).Err()
		}
	}

	// 2) Fallback to disk
	out, err := c.inner.Load(ctx, symbol)
	if err != nil {
		return entity.PriceTable{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedTable{Version: version, Table: out}); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.expiry()).Err(); err != nil {
			slog.Warn("failed to cache price table", "symbol", symbol, "error", err)
		}
	}
	return out, nil
}

// Save writes through to the inner repository and invalidates the cached table.
func (c *CachingPriceTableRepository) Save(ctx context.Context, t entity.PriceTable) error {
	if err := c.inner.Save(ctx, t); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.cacheKey(t.Symbol)).Err(); err != nil {
		slog.Warn("failed to invalidate cached price table", "symbol", t.Symbol, "error", err)
	}
	return nil
}

// expiry evaluates the TTL at write time.
func (c *CachingPriceTableRepository) expiry() time.Duration {
	if d := c.ttl(c.now()); d > 0 {
		return d
	}
	return DefaultTTL
}

// cacheKey generates a cache key for a symbol's table.
func (c *CachingPriceTableRepository) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:table:%s", c.namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
