package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/droplogic/connect4/internal/service/session"
	"github.com/droplogic/connect4/pkg/httputil"
)

// AuthMiddleware validates the JWT and its backing session, then exposes
// the identity to downstream handlers via the gin context.
func AuthMiddleware(authService *session.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			httputil.ClearAuthCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}
