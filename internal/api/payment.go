package api

import (
	"net/http" // HTTP status codes

	"inventory_sales/internal/middleware" // Current user
	"inventory_sales/internal/service"    // Catalog service
	"inventory_sales/internal/visibility" // Projections

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Fixed-point money
)

// PaymentMethodRequest is the writable body of a payment method
type PaymentMethodRequest struct {
	Name         string          `json:"name"`          // Payment method name
	InterestRate decimal.Decimal `json:"interest_rate"` // Percentage applied to the sale subtotal
}

// ListPaymentMethodsHandler returns a filtered page of payment methods
func ListPaymentMethodsHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.CurrentUser(c) // Resolved identity or nil
		opts, err := parseList(c, paymentMethodQuery, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		lc.serve(c, nsPaymentMethods, viewer, func() (gin.H, error) {
			rows, total, err := catalog.ListPaymentMethods(c.Request.Context(), opts)
			if err != nil {
				return nil, err
			}
			items := make([]gin.H, len(rows))
			for i, row := range rows {
				items[i] = visibility.PaymentMethod(row, viewer)
			}
			return pageBody("payment_methods", items, total, opts), nil
		})
	}
}

// GetPaymentMethodHandler returns one payment method
func GetPaymentMethodHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		pm, err := catalog.GetPaymentMethod(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_method": visibility.PaymentMethod(*pm, middleware.CurrentUser(c))})
	}
}

// SavePaymentMethodHandler creates a payment method on POST and replaces one on PUT
func SavePaymentMethodHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id uint // Zero creates
		if c.Param("id") != "" {
			var ok bool
			if id, ok = pathID(c); !ok {
				return
			}
		}
		var req PaymentMethodRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		viewer := middleware.CurrentUser(c)
		in := service.PaymentMethodInput{Name: req.Name, InterestRate: req.InterestRate}
		pm, err := catalog.SavePaymentMethod(c.Request.Context(), viewer, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsPaymentMethods)
		c.JSON(writeStatus(id), gin.H{"payment_method": visibility.PaymentMethod(*pm, viewer)})
	}
}

// DeletePaymentMethodHandler deletes a payment method no sale uses
func DeletePaymentMethodHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := catalog.DeletePaymentMethod(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsPaymentMethods)
		c.Status(http.StatusNoContent)
	}
}
