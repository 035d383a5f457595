package api

import (
	"net/http" // HTTP status codes

	"inventory_sales/internal/middleware" // Current user
	"inventory_sales/internal/service"    // Report service
	"inventory_sales/internal/visibility" // Projections

	"github.com/gin-gonic/gin" // Gin web framework
)

// MostSoldProductHandler returns the product on the most sale line items
func MostSoldProductHandler(reports *service.Reports) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, found, err := reports.MostSoldProduct(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		var view gin.H // Stays null when there are no sales
		if found {
			view = visibility.Product(*p, middleware.CurrentUser(c))
		}
		c.JSON(http.StatusOK, gin.H{"found": found, "product": view})
	}
}

// MostUsedPaymentMethodHandler returns the payment method used by the most sales
func MostUsedPaymentMethodHandler(reports *service.Reports) gin.HandlerFunc {
	return func(c *gin.Context) {
		pm, found, err := reports.MostUsedPaymentMethod(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		var view gin.H // Stays null when there are no sales
		if found {
			view = visibility.PaymentMethod(*pm, middleware.CurrentUser(c))
		}
		c.JSON(http.StatusOK, gin.H{"found": found, "payment_method": view})
	}
}
