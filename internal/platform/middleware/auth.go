// Package middleware holds the gin middleware chain shared by every route.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/auth"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/response"
)

const (
	principalKey = "principal"
	tokenIDKey   = "token_id"
	claimsKey    = "claims"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware requires a valid, unrevoked bearer token and stores the
// resulting principal on the context. A nil checker skips revocation.
func AuthMiddleware(jwtManager *auth.JWTManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		isRevoked, err := sessionRevoked(c.Request.Context(), revoked, claims)
		if err != nil {
			_ = c.Error(err)
			response.Fail(c, http.StatusServiceUnavailable, "session_store_unavailable", "unable to verify session")
			return
		}
		if isRevoked {
			response.Unauthorized(c, "session has been revoked")
			return
		}

		p, err := claims.Principal()
		if err != nil {
			response.Unauthorized(c, "invalid token subject")
			return
		}

		c.Set(principalKey, p)
		c.Set(tokenIDKey, claims.ID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the principal when a valid, unrevoked bearer
// token is present and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(jwtManager *auth.JWTManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}
		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.Next()
			return
		}
		if isRevoked, err := sessionRevoked(c.Request.Context(), revoked, claims); err != nil || isRevoked {
			c.Next()
			return
		}
		if p, err := claims.Principal(); err == nil {
			c.Set(principalKey, p)
			c.Set(tokenIDKey, claims.ID)
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// sessionRevoked checks the token id and then its subject, which is revoked
// when the account is deleted.
func sessionRevoked(ctx context.Context, revoked RevocationChecker, claims *auth.Claims) (bool, error) {
	if revoked == nil {
		return false, nil
	}
	for _, key := range []string{claims.ID, auth.SubjectRevocationKey(claims.Subject)} {
		isRevoked, err := revoked.IsRevoked(ctx, key)
		if err != nil || isRevoked {
			return isRevoked, err
		}
	}
	return false, nil
}

// GetPrincipal returns the authenticated caller, or nil for anonymous requests.
func GetPrincipal(c *gin.Context) *access.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*access.Principal)
	return p
}

// GetUserID returns the caller's id.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	p := GetPrincipal(c)
	if p == nil {
		return uuid.Nil, false
	}
	return p.ID, true
}

// GetUserRole returns the caller's role.
func GetUserRole(c *gin.Context) (access.Role, bool) {
	p := GetPrincipal(c)
	if p == nil {
		return "", false
	}
	return p.Role, true
}

// GetClaims returns the verified token claims.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
