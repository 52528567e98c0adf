package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ReportCache memoizes daily collection totals. Totals for past days are
// immutable facts, today's total changes as agents collect, so entries get a
// short TTL rather than invalidation plumbing.
type ReportCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewReportCache creates a ReportCache.
func NewReportCache(redis *RedisClient, ttl time.Duration) *ReportCache {
	return &ReportCache{redis: redis, ttl: ttl}
}

func (c *ReportCache) dailyKey(date string) string {
	return fmt.Sprintf("report:daily:%s", date)
}

// GetDailyTotal returns a cached total for a YYYY-MM-DD date, ok=false on miss.
func (c *ReportCache) GetDailyTotal(ctx context.Context, date string) (float64, bool) {
	raw, err := c.redis.Get(ctx, c.dailyKey(date))
	if err != nil {
		return 0, false
	}
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}

// SetDailyTotal stores a computed total for a YYYY-MM-DD date.
func (c *ReportCache) SetDailyTotal(ctx context.Context, date string, total float64) error {
	return c.redis.Set(ctx, c.dailyKey(date), strconv.FormatFloat(total, 'f', -1, 64), c.ttl)
}
