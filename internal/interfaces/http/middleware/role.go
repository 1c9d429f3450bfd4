package middleware

import (
	"net/http"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the role check fails (optional)
	OnDenied func(c *gin.Context, requiredRoles []roster.Role)
}

// RequireRoles creates middleware that lets the request through only when
// the authenticated caller holds one of the given roles. It must run after
// JWTAuthMiddleware.
func RequireRoles(roles ...roster.Role) gin.HandlerFunc {
	return RequireRolesWithConfig(RoleConfig{}, roles...)
}

// RequireRolesWithConfig creates role middleware with custom config
func RequireRolesWithConfig(cfg RoleConfig, roles ...roster.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			handleRoleDenied(c, cfg, roles, "No authenticated identity found")
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		handleRoleDenied(c, cfg, roles, "Caller lacks required role")
	}
}

// RequireAdmin requires the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(roster.RoleAdmin)
}

func handleRoleDenied(c *gin.Context, cfg RoleConfig, roles []roster.Role, reason string) {
	if cfg.Logger != nil {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = r.String()
		}
		cfg.Logger.Warn("Role check failed",
			zap.String("reason", reason),
			zap.Strings("required_roles", names),
			zap.String("path", c.Request.URL.Path),
		)
	}

	if cfg.OnDenied != nil {
		cfg.OnDenied(c, roles)
		return
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Insufficient role for this operation",
		},
	})
}
