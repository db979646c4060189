package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit checks whether id has exceeded its fixed-window limit for the
// named resource. Returns true if the request is allowed.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit opens the window
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing a per-IP fixed-window limit on
// the named resource. Rate limiting is disabled when APP_ENV is "test" or
// "development" so local workflows are not throttled, and fails open when Redis
// is unavailable.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		env := os.Getenv("APP_ENV")
		if env == "" || env == "test" || env == "development" {
			return c.Next()
		}
		if rdb == nil {
			return c.Next()
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, c.IP(), limit, window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit check failed, allowing request",
				"resource", resource, "error", err.Error())
			return c.Next()
		}
		if !allowed {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewValidationError("Too many requests, please try again later."))
		}

		return c.Next()
	}
}
