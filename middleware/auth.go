package middleware

import (
	"fintrack-backend/config"
	"fintrack-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired enforces a Bearer access token and stores user_id in the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.Unauthorized(c, "Authentication credentials were not provided")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(config.AppConfig.JWTSecret, strings.TrimSpace(parts[1]), utils.AccessToken)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
