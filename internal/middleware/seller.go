package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"inventory_sales/internal/domain" // Domain errors
	"inventory_sales/internal/policy" // Authorization rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// SellerOnlyMiddleware lets only identities with the seller capability through.
// It must run after one of the JWT middlewares.
func SellerOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := policy.Seller(CurrentUser(c)) // Check seller flag on the resolved user
		if errors.Is(err, domain.ErrUnauthenticated) {
			// No identity, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			// Identity is not a seller, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Seller access required"})
			return
		}
		// If seller, proceed to the next handler
		c.Next()
	}
}
