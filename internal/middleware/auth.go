// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/internhub/gateway/internal/utils"
)

// Role names as the auth service encodes them in the token.
const (
	RoleIntern  = "intern"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// AuthRequired validates the bearer token and stashes the caller's
// identity, role, and the raw token in the request context. The raw
// token is kept because every upstream call forwards it unchanged.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.UnauthorizedResponse(c, "Invalid authorization header")
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Session expired. Please log in again.")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("token", token)
		c.Next()
	}
}

// InternRequired gates the intern dashboard routes.
func InternRequired() gin.HandlerFunc {
	return roleRequired(RoleIntern)
}

// CompanyRequired gates the company dashboard routes.
func CompanyRequired() gin.HandlerFunc {
	return roleRequired(RoleCompany)
}

func roleRequired(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := utils.GetRoleFromContext(c)
		if !exists || (current != role && current != RoleAdmin) {
			utils.ForbiddenResponse(c, "This area is for "+role+" accounts only")
			c.Abort()
			return
		}
		c.Next()
	}
}
