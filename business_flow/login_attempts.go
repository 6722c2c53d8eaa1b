package businessflow

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptLimiter counts failed logins per email in Redis.
// A nil limiter allows every attempt.
type LoginAttemptLimiter struct {
	rc          redis.Cmdable
	prefix      string
	maxAttempts int64
	window      time.Duration
}

// NewLoginAttemptLimiter returns nil when rc is nil or limiting is switched off
func NewLoginAttemptLimiter(rc redis.Cmdable, prefix string, maxAttempts int, window time.Duration) *LoginAttemptLimiter {
	if rc == nil || maxAttempts <= 0 || window <= 0 {
		return nil
	}
	return &LoginAttemptLimiter{
		rc:          rc,
		prefix:      prefix,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func (l *LoginAttemptLimiter) key(email string) string {
	return l.prefix + "login_attempts:" + normalizeEmail(email)
}

// Blocked reports whether the email has used up its failed attempts in the current window.
// Redis errors fail open.
func (l *LoginAttemptLimiter) Blocked(ctx context.Context, email string) bool {
	if l == nil {
		return false
	}

	count, err := l.rc.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("login limiter: failed to read attempts: %v", err)
		}
		return false
	}
	return count >= l.maxAttempts
}

// RecordFailure increments the failed attempt counter. The key is created together with its
// expiry before the increment, so a counter can never outlive its window.
func (l *LoginAttemptLimiter) RecordFailure(ctx context.Context, email string) {
	if l == nil {
		return
	}

	key := l.key(email)
	if err := l.rc.SetNX(ctx, key, 0, l.window).Err(); err != nil {
		log.Printf("login limiter: failed to open window: %v", err)
		return
	}
	if err := l.rc.Incr(ctx, key).Err(); err != nil {
		log.Printf("login limiter: failed to record attempt: %v", err)
	}
}

// Reset clears the counter after a successful login
func (l *LoginAttemptLimiter) Reset(ctx context.Context, email string) {
	if l == nil {
		return
	}

	if err := l.rc.Del(ctx, l.key(email)).Err(); err != nil {
		log.Printf("login limiter: failed to reset attempts: %v", err)
	}
}
