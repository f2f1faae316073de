package repositories

import (
	"context"
	"strconv"
	"time"

	"ai-companion/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	visitCountKey   = "visits:count"
	visitUpdatedKey = "visits:last_updated"
)

// RedisVisitRepository keeps the counter in Redis. INCR makes the
// increment atomic across any number of instances.
type RedisVisitRepository struct {
	client *redis.Client
}

// NewRedisVisitRepository creates a Redis-backed counter. The seed value
// is written once, only if the key does not exist yet.
func NewRedisVisitRepository(ctx context.Context, client *redis.Client) (*RedisVisitRepository, error) {
	if err := client.SetNX(ctx, visitCountKey, initialVisitCount, 0).Err(); err != nil {
		return nil, NewRepositoryError("init_visits", "", err, "")
	}
	return &RedisVisitRepository{client: client}, nil
}

// Get returns the current stats.
func (r *RedisVisitRepository) Get(ctx context.Context) (*models.VisitStats, error) {
	val, err := r.client.Get(ctx, visitCountKey).Result()
	if err == redis.Nil {
		return &models.VisitStats{VisitCount: initialVisitCount, LastUpdated: time.Now()}, nil
	}
	if err != nil {
		return nil, NewRepositoryError("get_visits", "", err, "")
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, NewRepositoryError("get_visits", "", err, "unexpected counter value: "+val)
	}

	stats := &models.VisitStats{VisitCount: count, LastUpdated: time.Now()}
	if ts, err := r.client.Get(ctx, visitUpdatedKey).Result(); err == nil {
		if parsed, perr := time.Parse(time.RFC3339, ts); perr == nil {
			stats.LastUpdated = parsed
		}
	}
	return stats, nil
}

// Increment atomically adds one visit and returns the new stats.
func (r *RedisVisitRepository) Increment(ctx context.Context) (*models.VisitStats, error) {
	now := time.Now()

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, visitCountKey)
	pipe.Set(ctx, visitUpdatedKey, now.Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, NewRepositoryError("increment_visits", "", err, "")
	}

	return &models.VisitStats{VisitCount: incr.Val(), LastUpdated: now}, nil
}
