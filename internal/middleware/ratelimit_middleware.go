package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/cache"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// LoginRateLimiter throttles sign-in attempts per client IP using a Redis
// counter, so the limit holds across instances.
// Limit: 5 attempts per minute.
type LoginRateLimiter struct {
	redis *cache.RedisClient
}

// NewLoginRateLimiter constructs a LoginRateLimiter.
func NewLoginRateLimiter(redis *cache.RedisClient) *LoginRateLimiter {
	return &LoginRateLimiter{redis: redis}
}

func (r *LoginRateLimiter) key(ip string) string {
	return fmt.Sprintf("ratelimit:login:%s", ip)
}

// Handle rejects a request once its IP has exhausted the window.
func (r *LoginRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := r.key(c.ClientIP())

		count, err := r.redis.Incr(ctx, key)
		if err != nil {
			// Redis unavailable: let the attempt through, bcrypt still
			// slows brute force down.
			log.Error().Err(err).Msg("login rate limit check failed")
			c.Next()
			return
		}
		if count == 1 {
			if err := r.redis.Expire(ctx, key, time.Minute); err != nil {
				log.Error().Err(err).Msg("login rate limit expiry failed")
			}
		}
		if count > 5 {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many sign-in attempts")
			c.Abort()
			return
		}
		c.Next()
	}
}
