package http

import (
	"net/http"

	"farm-market/internal/domain"
	"farm-market/internal/infra"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Identify reads the caller from the identity headers. Authentication is left
// to whatever sits in front of this service.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := domain.NormalizeEmail(c.GetHeader(infra.HeaderUserEmail))
		role, ok := domain.ParseRole(c.GetHeader(infra.HeaderUserRole))
		if email == "" || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid identity headers"})
			c.Abort()
			return
		}
		c.Set(actorKey, domain.Actor{Email: email, Role: role})
		c.Next()
	}
}

// RoleAllowed lets the request through only for the given roles.
func RoleAllowed(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "role missing in context"})
			c.Abort()
			return
		}
		for _, r := range allowed {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden: role not allowed"})
		c.Abort()
	}
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
