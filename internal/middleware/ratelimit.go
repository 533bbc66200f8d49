package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"revcycle-engine/pkg/logger"
	"revcycle-engine/pkg/response"
)

// RateLimit enforces a fixed-window request limit per client IP and route,
// counted in redis. Fails open when redis is unreachable so the ledger stays
// available during cache outages.
func RateLimit(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.GetLogger().WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if count == 1 {
			client.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			response.TooManyRequests(c, "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
