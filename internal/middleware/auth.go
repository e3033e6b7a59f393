package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/token"
)

// ClaimsKey is the gin context key under which verified claims are stored.
const ClaimsKey = "claims"

// AuthRequired creates a Gin middleware guarding protected routes. A
// missing bearer token is rejected with 403 before any verification
// attempt; a present but invalid or expired token with 401. On success the
// decoded claims are attached to the request context.
func AuthRequired(tokens *token.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token not provided"})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			logger.Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
