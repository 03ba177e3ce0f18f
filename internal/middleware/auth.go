package middleware

import (
	"net/http"

	"storemart-be/internal/auth"

	"github.com/gin-gonic/gin"
)

// Authenticate parses the bearer token, if any, and stores the resulting
// principal in the request context. Requests without a token pass through
// anonymously; route guards decide what is allowed.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		ctx := auth.WithPrincipal(c.Request.Context(), claims.Principal())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole aborts with 401/403 unless the request carries a principal
// whose role is in the allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		p, ok := auth.PrincipalFromCtx(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if !allowed[p.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient role"})
			return
		}
		c.Next()
	}
}

// RequireKind restricts a route to principals of one account kind.
func RequireKind(kind auth.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFromCtx(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if p.Kind != kind {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "wrong account kind"})
			return
		}
		c.Next()
	}
}
