package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

// RequireRole applies the authorization gate to an API route. Unauthenticated
// callers get 401 and callers outside roles get 403. With no roles any
// authenticated principal passes.
func RequireRole(roles ...access.Role) gin.HandlerFunc {
	var allowed access.RoleSet
	if len(roles) > 0 {
		allowed = access.Roles(roles...)
	}

	return func(c *gin.Context) {
		switch access.Authorize(GetPrincipal(c), allowed) {
		case access.RedirectLogin:
			response.Unauthorized(c, "authentication required")
		case access.RedirectHome:
			response.Forbidden(c, "insufficient role")
		default:
			c.Next()
		}
	}
}
