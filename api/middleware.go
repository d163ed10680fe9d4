package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/auth"
	"github.com/mpetrov/aviabooking/internal/domain"
)

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "role"
)

// JWTAuth validates the bearer token and stores the verified actor identity
// in the request context. Role checks beyond ownership happen here and in
// RequireRole, never in the services.
func JWTAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, string(claims.Role))
		c.Next()
	}
}

func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(ctxRoleKey)
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func actorID(c *gin.Context) int64 {
	v, _ := c.Get(ctxUserIDKey)
	id, _ := v.(int64)
	return id
}
