package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"bodylog/internal/charts"
)

// ChartCache caches computed chart series in Redis so dashboard views do not
// recompute a series on every request. All methods tolerate a nil receiver,
// so the server runs fine without Redis.
type ChartCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewChartCache() (*ChartCache, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ChartCache{
		client: client,
		ctx:    ctx,
		ttl:    5 * time.Minute,
	}, nil
}

func (c *ChartCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func seriesKey(userID uint, metric charts.Metric, days int) string {
	return fmt.Sprintf("charts:%d:%s:%d", userID, metric, days)
}

// GetSeries returns a cached series and whether it was present.
func (c *ChartCache) GetSeries(userID uint, metric charts.Metric, days int) ([]charts.Point, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	data, err := c.client.Get(c.ctx, seriesKey(userID, metric, days)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get series from Redis: %w", err)
	}

	var points []charts.Point
	if err := json.Unmarshal([]byte(data), &points); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal series: %w", err)
	}
	return points, true, nil
}

// StoreSeries caches a series under its (user, metric, days) key.
func (c *ChartCache) StoreSeries(userID uint, metric charts.Metric, days int, points []charts.Point) error {
	if c == nil {
		return nil
	}

	jsonData, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	if err := c.client.Set(c.ctx, seriesKey(userID, metric, days), jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store series in Redis: %w", err)
	}
	return nil
}

// InvalidateUser drops every cached series for a user. Called after a
// measurement is created or deleted.
func (c *ChartCache) InvalidateUser(userID uint) error {
	if c == nil {
		return nil
	}

	pattern := fmt.Sprintf("charts:%d:*", userID)
	iter := c.client.Scan(c.ctx, 0, pattern, 0).Iterator()
	for iter.Next(c.ctx) {
		if err := c.client.Del(c.ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate chart cache: %w", err)
		}
	}
	return iter.Err()
}
