package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ClientIDHeader carries the caller's LINE user id when the LIFF front end knows it.
const ClientIDHeader = "X-Line-User-Id"

type RateLimiter struct {
	redisClient *redis.Client
	onReject    func(c *gin.Context)
}

// NewRateLimiter builds a fixed-window limiter on Redis. onReject writes the
// rejection response; a nil onReject answers with a bare 429.
func NewRateLimiter(client *redis.Client, onReject func(c *gin.Context)) *RateLimiter {
	if onReject == nil {
		onReject = func(c *gin.Context) {
			c.AbortWithStatus(http.StatusTooManyRequests)
		}
	}
	return &RateLimiter{redisClient: client, onReject: onReject}
}

// Limit allows limit calls per window per client. Redis failures, including a
// failed EXPIRE, let the request through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, clientKey(c))

		var (
			incr *redis.IntCmd
			ttl  *redis.DurationCmd
		)
		_, err := rl.redisClient.Pipelined(c, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(c, key)
			ttl = pipe.TTL(c, key)
			return nil
		})
		if err != nil {
			slog.Warn("rate limiter unavailable", "key", key, "error", err.Error())
			c.Next()
			return
		}

		// re-arm a key left without expiry by an earlier failed EXPIRE
		remaining := ttl.Val()
		if remaining < 0 {
			if err := rl.redisClient.Expire(c, key, window).Err(); err != nil {
				slog.Warn("rate limiter expire failed", "key", key, "error", err.Error())
				c.Next()
				return
			}
			remaining = window
		}

		if incr.Val() > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", remaining.Seconds()))
			rl.onReject(c)
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if id := c.GetHeader(ClientIDHeader); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}
