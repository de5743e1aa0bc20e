package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/rbac"
	"github.com/clinicasys/clinica-api/pkg/auth"
)

const (
	// ClaimsKey is the context key the authenticated principal is stored under.
	ClaimsKey = "claims"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// Authenticate validates the bearer token and stores the principal claims in
// the request context. Every protected route sits behind it.
func Authenticate(jwtSvc auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  gin.H{"message": "missing or malformed authorization header"},
			})
			return
		}

		claims, err := jwtSvc.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  gin.H{"message": "invalid or expired token"},
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireCapability gates a route group on the capability table. The check is
// a pure function of the principal's role.
func RequireCapability(gate *rbac.Service, capability rbac.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  gin.H{"message": "authentication required"},
			})
			return
		}

		if !gate.CanAccess(claims.Role, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status": "error",
				"error":  gin.H{"message": "insufficient permissions"},
			})
			return
		}
		c.Next()
	}
}

// RequireRoles admits only the listed roles. An empty list admits any
// authenticated principal.
func RequireRoles(gate *rbac.Service, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  gin.H{"message": "authentication required"},
			})
			return
		}

		if !gate.Authorize(claims.Role, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status": "error",
				"error":  gin.H{"message": "insufficient permissions"},
			})
			return
		}
		c.Next()
	}
}

// GetClaims returns the authenticated principal, or nil when the route is
// unauthenticated.
func GetClaims(c *gin.Context) *model.TokenClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
