package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/orghub/orghub/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyLogin = "ratelimit:login:%s"

// LoginLimiter throttles credential attempts per client address.
type LoginLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
}

func NewLoginLimiter(cfg config.Config, client *redis.Client) *LoginLimiter {
	if !cfg.LoginRateEnabled {
		return &LoginLimiter{}
	}
	return &LoginLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.LoginRate,
		burst:   cfg.LoginBurst,
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *LoginLimiter) Allow(ctx context.Context, clientIP string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyLogin, strings.TrimSpace(clientIP))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
