package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"serviqo/models"
	"serviqo/utils"
)

// Context keys set by JWTAuthMiddleware.
const (
	CtxActorID = "actorID"
	CtxRole    = "role"
)

// JWTAuthMiddleware extracts the acting party's identity and role from the
// bearer token. Tokens are issued by the external user directory; this
// engine only reads them.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(CtxActorID, actorID)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// RequireRole aborts unless the authenticated actor carries the given role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Actor(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// ActorInfo is the authenticated identity for a request.
type ActorInfo struct {
	ID   string
	Role models.Role
}

// Actor returns the authenticated actor set by JWTAuthMiddleware.
func Actor(c *gin.Context) ActorInfo {
	id, _ := c.Get(CtxActorID)
	role, _ := c.Get(CtxRole)
	info := ActorInfo{}
	if s, ok := id.(string); ok {
		info.ID = s
	}
	if s, ok := role.(string); ok {
		info.Role = models.Role(s)
	}
	return info
}
