package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/service"
)

const (
	CurrentUserKey = "current_user"
	SessionIDKey   = "session_id"
)

func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		user, sessionID, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(SessionIDKey, sessionID)

		c.Next()
	}
}
