package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campfire/internal/pkg"
	"campfire/internal/repository/redis"
)

const ContextUserIDKey = "user_id"

// AuthMiddleware validates the bearer token against the JWT signature and
// the redis session mirror (single active login), then injects user_id.
func AuthMiddleware(tokens *pkg.TokenManager, sessions *redis.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		stored, err := sessions.GetUserToken(c.Request.Context(), claims.UserID)
		if err != nil || stored != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or replaced"})
			return
		}

		// Sliding session: extend on every authenticated request.
		if err := sessions.ExtendUserToken(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session extend failed"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
