package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-rest-service/pkg/security"
)

// Auth returns a middleware that requires a valid HS256 bearer token and
// places the token's actor into the request context for audit stamping.
func Auth(jwtSecret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := security.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			log.Warn("request without bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": []string{"missing bearer token"}})
			return
		}

		actor, err := security.VerifyToken(token, jwtSecret)
		if err != nil {
			log.Warn("bearer token failed verification",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": []string{"invalid bearer token"}})
			return
		}

		ctx := security.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
