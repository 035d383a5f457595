package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"inventory_sales/internal/domain"     // Domain errors
	"inventory_sales/internal/middleware" // Request scoped logger

	"github.com/gin-gonic/gin" // Gin web framework
)

// statusOf maps a domain error kind to its HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg[, "field": f]}. Unclassified
// errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(c).WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var derr *domain.Error
	if errors.As(err, &derr) {
		body["error"] = derr.Message
		if derr.Field != "" {
			body["field"] = derr.Field
		}
	}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		body["field"] = "items"
		body["product"] = stock.ProductID
		body["requested"] = stock.Requested
		body["available"] = stock.Available
	}
	c.JSON(status, body)
}

// badRequest reports an unparseable request body
func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
}

// pathID parses the :id path parameter; it writes a 404 and returns false
// when the parameter is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}
