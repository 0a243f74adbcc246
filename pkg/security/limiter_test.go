package security

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLoginTrackerBlocksAfterMaxAttempts(t *testing.T) {
	mr, client := newTestRedis(t)
	core, logs := observer.New(zap.InfoLevel)
	logger := NewSecurityLoggerWith(zap.New(core), "test", "test")

	tracker := NewLoginTracker(client, LoginTrackerConfig{
		MaxAttempts:   3,
		AttemptWindow: time.Minute,
		BlockDuration: 10 * time.Minute,
	}, logger)
	ctx := context.Background()
	meta := RequestMeta{IP: "10.0.0.1", RequestID: "req-1"}

	for i := 0; i < 2; i++ {
		blocked, err := tracker.RecordFailedAttempt(ctx, "Alice@x.com", meta)
		require.NoError(t, err)
		assert.False(t, blocked)
	}

	remaining, err := tracker.RemainingAttempts(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	blocked, err := tracker.RecordFailedAttempt(ctx, "alice@x.com", meta)
	require.NoError(t, err)
	assert.True(t, blocked)

	isBlocked, err := tracker.IsBlocked(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.True(t, isBlocked)

	assert.Equal(t, 3, logs.FilterMessage(string(EventLoginFailed)).Len())
	assert.Equal(t, 1, logs.FilterMessage(string(EventBlockCreated)).Len())

	mr.FastForward(11 * time.Minute)
	isBlocked, err = tracker.IsBlocked(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.False(t, isBlocked)
}

func TestLoginTrackerClearAttempts(t *testing.T) {
	_, client := newTestRedis(t)
	tracker := NewLoginTracker(client, DefaultLoginTrackerConfig(), NopSecurityLogger())
	ctx := context.Background()

	_, err := tracker.RecordFailedAttempt(ctx, "bob@x.com", RequestMeta{})
	require.NoError(t, err)
	require.NoError(t, tracker.ClearAttempts(ctx, "bob@x.com"))

	remaining, err := tracker.RemainingAttempts(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestLoginTrackerWithoutRedisFailsOpen(t *testing.T) {
	tracker := NewLoginTracker(nil, DefaultLoginTrackerConfig(), NopSecurityLogger())
	ctx := context.Background()

	blocked, err := tracker.RecordFailedAttempt(ctx, "bob@x.com", RequestMeta{})
	require.NoError(t, err)
	assert.False(t, blocked)

	isBlocked, err := tracker.IsBlocked(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.False(t, isBlocked)
}

func TestUploadLimiterDailyQuota(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewUploadLimiter(client, 3)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "u1", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "u1", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "u1", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// quotas are per user
	ok, err = limiter.Allow(ctx, "u2", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUploadLimiterWithoutRedis(t *testing.T) {
	ok, err := NewUploadLimiter(nil, 1).Allow(context.Background(), "u1", 5)
	require.NoError(t, err)
	assert.True(t, ok)
}
