package rainfall

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"quote-service/internal/models"
)

// CachedSource decorates a Source with a Redis read-through cache for daily
// series. Historical rainfall never changes once published, so a long TTL is
// safe. Only raw rainfall is ever cached; derived quantities are recomputed
// on every quote.
type CachedSource struct {
	inner  Source
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSource(inner Source, client *redis.Client, ttlHours int, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		redis:  client,
		ttl:    time.Duration(ttlHours) * time.Hour,
		logger: logger,
	}
}

func dailyCacheKey(loc models.Location, rng models.DateRange) string {
	return fmt.Sprintf("rainfall:daily:%.4f:%.4f:%.0f:%s:%s",
		loc.Latitude, loc.Longitude, loc.BufferRadiusM,
		rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))
}

func (c *CachedSource) FetchDaily(ctx context.Context, loc models.Location, rng models.DateRange) ([]models.DailyRainfall, error) {
	key := dailyCacheKey(loc, rng)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var series []models.DailyRainfall
		if err := json.Unmarshal([]byte(cached), &series); err == nil {
			return series, nil
		}
		// Corrupt entry; fall through to upstream and overwrite.
		c.logger.Warn("discarding unreadable rainfall cache entry", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("rainfall cache read failed", "key", key, "error", err)
	}

	series, err := c.inner.FetchDaily(ctx, loc, rng)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(series); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("rainfall cache write failed", "key", key, "error", err)
		}
	}
	return series, nil
}

// FetchPhaseTotals passes through uncached. Phase windows depend on detected
// planting dates, so two quotes rarely share the exact same batch.
func (c *CachedSource) FetchPhaseTotals(ctx context.Context, loc models.Location, windows map[int]map[string]models.DateRange) (map[int]map[string]float64, error) {
	return c.inner.FetchPhaseTotals(ctx, loc, windows)
}
