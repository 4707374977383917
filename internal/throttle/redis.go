package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "throttle:origin:"

// RedisStore is a sliding-window throttle backed by Redis sorted sets, for
// deployments running more than one API instance. Keys carry a TTL slightly
// longer than the window so idle origins expire on their own.
type RedisStore struct {
	client  redis.Cmdable
	maxReqs int
	window  time.Duration
}

func NewRedisStore(client redis.Cmdable, maxReqs int, window time.Duration) *RedisStore {
	return &RedisStore{client: client, maxReqs: maxReqs, window: window}
}

func (s *RedisStore) Admit(ctx context.Context, originKey string) (bool, error) {
	key := redisKeyPrefix + originKey
	now := time.Now()
	windowStart := float64(now.Add(-s.window).UnixMilli())
	member := fmt.Sprintf("%d", now.UnixNano())
	score := float64(now.UnixMilli())

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%f", windowStart))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: member})
	pipe.Expire(ctx, key, s.window+time.Minute)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("throttle pipeline: %w", err)
	}

	return countCmd.Val() < int64(s.maxReqs), nil
}

func (s *RedisStore) RetryAfterSeconds() int {
	return int(s.window.Seconds())
}
