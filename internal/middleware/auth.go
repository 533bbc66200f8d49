package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"revcycle-engine/pkg/logger"
	"revcycle-engine/pkg/response"
)

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the principal id and role in the
// request context. Token issuance is external; this middleware only checks.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.GetLogger().WithError(err).Warn("Invalid token")
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("actor_id", claims.Subject)
		c.Set("actor_role", claims.Role)

		c.Next()
	}
}

// RequireRole rejects requests whose token role is not in the allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, _ := c.Get("actor_role")
		roleStr, _ := role.(string)

		if !allowed[roleStr] {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
