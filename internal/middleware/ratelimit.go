package middleware

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"draftline/internal/cache"
	"draftline/internal/observability"
)

// RateLimitPolicy controls behavior when Redis is unavailable.
type RateLimitPolicy int

const (
	// FailOpen allows requests when Redis is down (availability over strictness)
	FailOpen RateLimitPolicy = iota
	// FailClosed denies requests when Redis is down (strictness over availability)
	FailClosed
)

// CheckRateLimit enforces a fixed-window limit of max requests per window for
// an action. It keys by authenticated userID (if set in c.Locals("userID"))
// otherwise by remote IP.
func CheckRateLimit(c *fiber.Ctx, action string, max int, window time.Duration, policy RateLimitPolicy) error {
	env := os.Getenv("APP_ENV")
	if env == "test" || env == "development" {
		return c.Next()
	}

	client := cache.GetClient()
	if client == nil {
		if policy == FailClosed {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "rate limiting unavailable",
			})
		}
		return c.Next()
	}

	var id string
	if uid := c.Locals("userID"); uid != nil {
		id = fmt.Sprintf("user:%v", uid)
	} else {
		id = fmt.Sprintf("ip:%s", c.IP())
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("ratelimit:%s:%s", action, id)

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		observability.RedisErrorRate.Inc()
		Logger.WarnContext(ctx, "rate limit check failed", "action", action, "error", err)
		if policy == FailClosed {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "rate limiting unavailable",
			})
		}
		return c.Next()
	}

	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			observability.RedisErrorRate.Inc()
		}
	}

	if count > int64(max) {
		Logger.WarnContext(ctx, "rate limit exceeded", "action", action, "key", id, "count", count)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "too many requests, please try again later",
		})
	}

	return c.Next()
}

// RateLimit returns a Fiber middleware enforcing max requests per window for an action.
func RateLimit(action string, max int, window time.Duration, policy RateLimitPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return CheckRateLimit(c, action, max, window, policy)
	}
}
