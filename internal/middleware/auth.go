package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextRole      = "role"
)

// AuthRequired checks for a valid bearer token and attaches the resolved
// identity to the request context. Missing, malformed, expired, and
// wrongly signed tokens all fail with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// AdminRequired fails with 403 unless the resolved role is ADMIN. Must
// run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists || role != models.RoleAdmin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetUserEmail gets the current user email from context.
func GetUserEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextUserEmail); exists {
		return email.(string)
	}
	return ""
}

// GetRole gets the current user role from context.
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}
