package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"liars_dice/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware
// and returns it so the stores can reuse the connection. If the ping fails
// it returns nil and the middleware acts as fail-open.
func InitRedisRateLimiter(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// on ping failure, disable redis client to keep server available
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		redisClient = nil
		return nil
	}
	redisClient = client
	return client
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		val, err := incrWindow(c.Request.Context(), key, window)
		if err != nil {
			// on Redis error, fail-open (allow) but set header
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

func incrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}
