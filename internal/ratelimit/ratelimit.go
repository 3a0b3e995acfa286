// Package ratelimit gates the unauthenticated auth endpoints behind a
// fixed-window request counter kept in Redis.
package ratelimit

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// MsgRateLimited is returned once a client exhausts its window.
const MsgRateLimited = "Too many requests, please try again later"

// Limiter counts requests per client IP and route class. A nil Limiter or
// an unreachable Redis lets requests through: the gate must never take the
// login path down with it.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
	cfg    config.RateLimitConfig
}

// New builds a limiter on top of the shared Redis client.
func New(client *redis.Client, logger *zap.Logger, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{client: client, logger: logger, cfg: cfg}
}

// Handle returns middleware limiting requests for the given route class.
func (l *Limiter) Handle(class string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.client == nil || !l.cfg.Enabled {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", class, c.IP())
		ctx := c.Context()

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			l.logger.Warn("rate limit backend unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := l.client.Expire(ctx, key, l.cfg.Window()).Err(); err != nil {
				l.logger.Warn("rate limit expire failed", zap.Error(err))
			}
		}

		if count > int64(l.cfg.MaxRequests) {
			return apperrors.NewTooManyRequests(MsgRateLimited)
		}
		return c.Next()
	}
}
