package middleware

import (
	"context"  // Identity lookup
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"inventory_sales/internal/domain" // Domain models
	"inventory_sales/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// userKey is the gin context key holding the resolved *domain.User
const userKey = "user"

// IdentityResolver loads the identity a verified token refers to
type IdentityResolver interface {
	Resolve(ctx context.Context, id uint) (*domain.User, error)
}

// JWTAuthMiddleware requires a valid bearer access token and resolves its user
func JWTAuthMiddleware(secret string, users IdentityResolver) gin.HandlerFunc {
	return authenticate(secret, users, true)
}

// OptionalJWTAuthMiddleware resolves the user when a bearer token is present.
// Requests without an Authorization header continue anonymously; a present
// but invalid token is still rejected.
func OptionalJWTAuthMiddleware(secret string, users IdentityResolver) gin.HandlerFunc {
	return authenticate(secret, users, false)
}

func authenticate(secret string, users IdentityResolver, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Anonymous access is allowed on optional routes
		if authHeader == "" && !required {
			c.Next()
			return
		}
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")              // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, utils.AccessToken, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Load the user so role flags are always current
		user, err := users.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(userKey, user) // Store user in context
		c.Next()             // Proceed to the next handler
	}
}

// CurrentUser returns the resolved identity, or nil for anonymous requests
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

