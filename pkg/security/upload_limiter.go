package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps how many attachments one user may store per day.
// A nil Redis client disables the limit (fail open).
type UploadLimiter struct {
	client    *goredis.Client
	maxPerDay int
	now       func() time.Time
}

// Lua script for sliding window rate limiting
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp (ms)
// ARGV[4] = unique member
// Returns: 1 if allowed, 0 if rate limited
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window * 1000)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter creates an upload rate limiter (default 50 uploads/day per user)
func NewUploadLimiter(client *goredis.Client, perDay int) *UploadLimiter {
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		client:    client,
		maxPerDay: perDay,
		now:       time.Now,
	}
}

// Allow consumes n upload slots for userID. It reports false when the daily
// quota is exhausted.
func (ul *UploadLimiter) Allow(ctx context.Context, userID string, n int) (bool, error) {
	if ul.client == nil || n <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:upload:user:%s", userID)
	const window = 24 * 60 * 60

	for i := 0; i < n; i++ {
		now := ul.now().UnixMilli()
		member := fmt.Sprintf("%d-%s", now, uuid.NewString())
		result, err := ul.client.Eval(ctx, uploadRateLimitScript, []string{key}, ul.maxPerDay, window, now, member).Result()
		if err != nil {
			return false, fmt.Errorf("rate limit check failed: %w", err)
		}
		allowed, ok := result.(int64)
		if !ok {
			return false, fmt.Errorf("unexpected result type from rate limit script")
		}
		if allowed != 1 {
			return false, nil
		}
	}
	return true, nil
}
