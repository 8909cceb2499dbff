package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"parkmate/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

// AggregateCache is a read-through redis cache for per-lot rating aggregates.
// The database row stays the source of truth; rating mutations invalidate the
// entry after commit and the next read repopulates it.
type AggregateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAggregateCache connects to redis. A connection failure is returned to
// the caller; pass a nil *AggregateCache to run without caching.
func NewAggregateCache(addr, password string, ttl time.Duration) (*AggregateCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &AggregateCache{client: rdb, ttl: ttl}, nil
}

func aggregateKey(lotID int64) string {
	return fmt.Sprintf("aggregate:lot:%d", lotID)
}

// Get returns the cached aggregate for a lot, or nil on a cache miss.
func (c *AggregateCache) Get(ctx context.Context, lotID int64) (*models.RatingAggregate, error) {
	if c == nil || c.client == nil {
		// No-op for testing/mock mode - report a miss
		return nil, nil
	}

	fields, err := c.client.HGetAll(ctx, aggregateKey(lotID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil // miss
	}

	agg := &models.RatingAggregate{LotID: lotID}
	if v, ok := fields["total_score"]; ok {
		agg.TotalScore, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := fields["rating_count"]; ok {
		agg.RatingCount, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := fields["avg_score"]; ok {
		agg.AvgScore, _ = strconv.ParseFloat(v, 64)
	}
	return agg, nil
}

// Set stores the aggregate snapshot with the configured TTL.
func (c *AggregateCache) Set(ctx context.Context, agg *models.RatingAggregate) error {
	if c == nil || c.client == nil {
		return nil
	}

	key := aggregateKey(agg.LotID)
	fields := map[string]any{
		"total_score":  agg.TotalScore,
		"rating_count": agg.RatingCount,
		"avg_score":    agg.AvgScore,
	}

	if err := c.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

// Invalidate drops the cached entry for a lot after a rating mutation.
func (c *AggregateCache) Invalidate(ctx context.Context, lotID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, aggregateKey(lotID)).Err()
}

// Close shuts the underlying redis connection.
func (c *AggregateCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
