// Package ratelimit provides the storage and configuration of the fiber
// limiters guarding the public endpoints.
package ratelimit

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
)

// NewRedisStorage returns a limiter storage on the Redis server of the
// shared cache client. Counters live in RATE_LIMIT_DB (default 1) so they
// never collide with cache keys.
func NewRedisStorage() fiber.Storage {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		// Prefer password from the underlying client if present
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: env.GetEnvInt("RATE_LIMIT_DB", 1),
		Reset:    false,
	})
}

// New builds a limiter allowing max requests per window and client IP.
// A nil storage keeps the counters in memory.
func New(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		},
	})
}
