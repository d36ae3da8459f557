package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dojoadmin/internal/pkg/response"
)

// RequireRole gates a route group on the role claim. This is a cheap first
// filter only: privileged services re-verify the requester against the store
// before mutating anything, so a forged role claim buys nothing.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// MasterOnly middleware requires the master role
func MasterOnly() gin.HandlerFunc {
	return RequireRole("master")
}
