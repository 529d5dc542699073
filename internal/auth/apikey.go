package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const headerName = "X-API-Key"

// Role is the access tier granted by an API key.
type Role string

const (
	// RoleAdmin manages one location's back office.
	RoleAdmin Role = "admin"
	// RoleSuperadmin manages every location.
	RoleSuperadmin Role = "superadmin"
)

// ContextRole is the gin context key the middleware stores the Role under.
const ContextRole = "auth_role"

// APIKeyMiddleware validates the X-API-Key header against the two
// configured keys and records the matching role. With both keys empty,
// authentication is disabled and every request runs as superadmin.
func APIKeyMiddleware(adminKey, superadminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" && superadminKey == "" {
			c.Set(ContextRole, RoleSuperadmin)
			c.Next()
			return
		}

		provided := c.GetHeader(headerName)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}

		switch {
		case superadminKey != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(superadminKey)) == 1:
			c.Set(ContextRole, RoleSuperadmin)
		case adminKey != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) == 1:
			c.Set(ContextRole, RoleAdmin)
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid API key",
			})
			return
		}

		c.Next()
	}
}

// RequireSuperadmin gates endpoints that cut across locations (user-level
// CRUD, payroll for all locations).
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := c.Get(ContextRole); !ok || role != RoleSuperadmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "superadmin access required",
			})
			return
		}
		c.Next()
	}
}
