package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Maximum failed attempts before block
	AttemptWindow time.Duration // Time window for tracking attempts
	BlockDuration time.Duration // How long to block after max attempts
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker tracks failed login attempts per email and enforces temporary blocks.
// A nil Redis client disables tracking (fail open).
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
	logger *SecurityLogger
}

// NewLoginTracker creates a new login tracker with the given config
func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultLoginTrackerConfig().MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = DefaultLoginTrackerConfig().AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = DefaultLoginTrackerConfig().BlockDuration
	}
	return &LoginTracker{
		config: config,
		client: client,
		logger: logger,
	}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	blockedLoginUserPrefix = "blocked:login:user:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlocked checks if the given email is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}

	exists, err := lt.client.Exists(ctx, blockedLoginUserPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check user block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt records a failed login attempt and returns whether the user is now blocked
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email string, meta RequestMeta) (bool, error) {
	lt.logger.LogLoginFailed(ctx, email, meta, "invalid_credentials")

	if lt.client == nil {
		return false, nil
	}

	key := failLoginUserPrefix + normalizeEmail(email)
	count, err := lt.atomicIncrement(ctx, key, int(lt.config.AttemptWindow.Seconds()))
	if err != nil {
		return false, fmt.Errorf("failed to increment user counter: %w", err)
	}

	if count >= lt.config.MaxAttempts {
		if err := lt.createBlock(ctx, email, meta); err != nil {
			return true, fmt.Errorf("failed to create block: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// atomicIncrement performs an atomic increment with TTL using Lua script
func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string, ttlSeconds int) (int, error) {
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email string, meta RequestMeta) error {
	normalized := normalizeEmail(email)
	if err := lt.client.Set(ctx, blockedLoginUserPrefix+normalized, "1", lt.config.BlockDuration).Err(); err != nil {
		return fmt.Errorf("failed to set user block: %w", err)
	}
	// the counter restarts once the block expires
	_ = lt.client.Del(ctx, failLoginUserPrefix+normalized).Err()

	lt.logger.LogBlockCreated(ctx, "email", email, meta, int(lt.config.BlockDuration.Minutes()))
	return nil
}

// ClearAttempts clears failed login attempts on successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	if lt.client == nil {
		return nil
	}
	if err := lt.client.Del(ctx, failLoginUserPrefix+normalizeEmail(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear user attempts: %w", err)
	}
	return nil
}

// RemainingAttempts returns how many attempts remain before a block
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, email string) (int, error) {
	if lt.client == nil {
		return lt.config.MaxAttempts, nil
	}

	count, err := lt.client.Get(ctx, failLoginUserPrefix+normalizeEmail(email)).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt count: %w", err)
	}

	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
