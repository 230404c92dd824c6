package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/auth"
	"github.com/playmatatu/spinball/internal/config"
)

// ControlTokenMiddleware requires a bearer control token issued for the
// match named by the :id path parameter.
func ControlTokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		if err := auth.VerifyControlToken(cfg.JWTSecret, token, c.Param("id")); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid control token"})
			return
		}
		c.Next()
	}
}
