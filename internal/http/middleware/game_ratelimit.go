package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GameRateLimit limits matches per player (not per IP) using Redis.
// Requires JWT middleware to run before this.
func GameRateLimit(maxGames int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		player, ok := Player(c)
		if !ok {
			// No player means JWT middleware didn't run or failed
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		key := "game_rl:" + player + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		val, err := incrWindow(c.Request.Context(), key, window)
		if err != nil {
			c.Header("X-GameRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-GameRateLimit-Limit", strconv.Itoa(maxGames))
		c.Header("X-GameRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxGames)-val), 10))

		if val > int64(maxGames) {
			RLBlocked.WithLabelValues("game:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("game:" + c.FullPath()).Inc()
		c.Next()
	}
}
