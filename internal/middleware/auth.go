package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/pkg/jwt"
)

// JWTAuth extracts actor identity from the bearer token issued by the auth
// collaborator and stores it on the request context
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.Fail(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.Fail(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.Fail(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.Fail(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("actorID", claims.ActorID)
		c.Set("actorRole", claims.Role)
		c.Set("nickname", claims.Nickname)

		c.Next()
	}
}

// GetActorID extracts the actor id from context
func GetActorID(c *gin.Context) string {
	actorID, exists := c.Get("actorID")
	if !exists {
		return ""
	}
	if str, ok := actorID.(string); ok {
		return str
	}
	return ""
}

// GetActorRole extracts the actor role from context
func GetActorRole(c *gin.Context) string {
	role, exists := c.Get("actorRole")
	if !exists {
		return ""
	}
	if str, ok := role.(string); ok {
		return str
	}
	return ""
}
