package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
)

type RateLimitConfig struct {
	Limit         int
	Window        time.Duration
	BlockDuration time.Duration
	KeyPrefix     string
	Logger        *zap.Logger
	// Rejected is incremented with the key prefix as label; may be nil.
	Rejected *prometheus.CounterVec
}

// RateLimit counts requests per client IP in Redis and blocks a client for
// BlockDuration once it exceeds Limit within Window. A nil client disables
// limiting; Redis errors let the request through.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig) fiber.Handler {
	if rdb == nil || cfg.Limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := cfg.KeyPrefix + ":ip:" + c.IP()
		blockKey := key + ":blocked"

		if blocked, _ := rdb.Get(ctx, blockKey).Result(); blocked == "1" {
			ttl, _ := rdb.TTL(ctx, blockKey).Result()
			return reject(c, cfg, ttl)
		}

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			rdb.Expire(ctx, key, cfg.Window)
		}

		if count > int64(cfg.Limit) {
			rdb.Set(ctx, blockKey, "1", cfg.BlockDuration)
			logger.Info("Client blocked by rate limiter", zap.String("key", key))
			return reject(c, cfg, cfg.BlockDuration)
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-int(count)))
		return c.Next()
	}
}

func reject(c *fiber.Ctx, cfg RateLimitConfig, retry time.Duration) error {
	if cfg.Rejected != nil {
		cfg.Rejected.WithLabelValues(cfg.KeyPrefix).Inc()
	}
	if retry > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Seconds())))
	}
	return apperr.TooManyRequests("Too many requests. Please try again later.")
}
