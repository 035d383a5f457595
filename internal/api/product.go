package api

import (
	"net/http" // HTTP status codes

	"inventory_sales/internal/middleware" // Current user
	"inventory_sales/internal/service"    // Catalog service
	"inventory_sales/internal/visibility" // Projections

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Fixed-point money
)

// ProductRequest is the writable body of a product. Availability is derived
// from the quantity and cannot be written.
type ProductRequest struct {
	Name          string          `json:"name"`           // Product name, stored upper-cased
	PurchasePrice decimal.Decimal `json:"purchase_price"` // Cost price
	SalePrice     decimal.Decimal `json:"sale_price"`     // Current selling price
	Quantity      int             `json:"quantity"`       // Units in stock
	Category      uint            `json:"category"`       // Owning category ID
}

// ListProductsHandler returns a filtered page of products
func ListProductsHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.CurrentUser(c) // Resolved identity or nil
		opts, err := parseList(c, productQuery, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		lc.serve(c, nsProducts, viewer, func() (gin.H, error) {
			rows, total, err := catalog.ListProducts(c.Request.Context(), opts)
			if err != nil {
				return nil, err
			}
			items := make([]gin.H, len(rows))
			for i, row := range rows {
				items[i] = visibility.Product(row, viewer)
			}
			return pageBody("products", items, total, opts), nil
		})
	}
}

// GetProductHandler returns one product
func GetProductHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		p, err := catalog.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": visibility.Product(*p, middleware.CurrentUser(c))})
	}
}

// SaveProductHandler creates a product on POST and replaces one on PUT
func SaveProductHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id uint // Zero creates
		if c.Param("id") != "" {
			var ok bool
			if id, ok = pathID(c); !ok {
				return
			}
		}
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		viewer := middleware.CurrentUser(c)
		in := service.ProductInput{
			Name:          req.Name,          // Name
			PurchasePrice: req.PurchasePrice, // Cost price
			SalePrice:     req.SalePrice,     // Selling price
			Quantity:      req.Quantity,      // Stock
			CategoryID:    req.Category,      // Category
		}
		p, err := catalog.SaveProduct(c.Request.Context(), viewer, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsProducts)
		c.JSON(writeStatus(id), gin.H{"product": visibility.Product(*p, viewer)})
	}
}

// DeleteProductHandler deletes a product no sale references
func DeleteProductHandler(catalog *service.Catalog, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := catalog.DeleteProduct(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsProducts)
		c.Status(http.StatusNoContent)
	}
}
