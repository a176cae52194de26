package middleware

import (
	"net/http"
	"strings"

	"liars_dice/internal/service"

	"github.com/gin-gonic/gin"
)

// PlayerKey is the gin context key holding the authenticated player name.
const PlayerKey = "player"

// JWT requires "Authorization: Bearer <token>" and stores the token subject
// under PlayerKey.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		player, err := service.ParseJWT(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(PlayerKey, player)
		c.Next()
	}
}

// Player returns the name stored by JWT.
func Player(c *gin.Context) (string, bool) {
	v, ok := c.Get(PlayerKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok && name != ""
}
