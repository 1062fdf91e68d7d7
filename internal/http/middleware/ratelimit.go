package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/utils"
)

// RateLimitConfig configures the fixed-window limiter.
// A nil Storage keeps counters in process memory.
type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// RateLimit rejects a client IP's requests beyond Max per Window with 429.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 200
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Window,
		Storage:      cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string { return utils.CopyString(c.IP()) },
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, slow down")
		},
	})
}
