package api

import (
	"encoding/json" // Raw read-only fields
	"net/http"      // HTTP status codes

	"inventory_sales/internal/domain"     // Domain errors
	"inventory_sales/internal/middleware" // Current user
	"inventory_sales/internal/service"    // Sale service
	"inventory_sales/internal/visibility" // Projections

	"github.com/gin-gonic/gin" // Gin web framework
)

// SaleItemRequest is one requested line of a sale
type SaleItemRequest struct {
	Product  uint `json:"product"`  // Product ID
	Quantity int  `json:"quantity"` // Units to sell
}

// CreateSaleRequest is the body of a new sale. Total and sale date are
// computed by the server; sending either is rejected.
type CreateSaleRequest struct {
	PaymentMethod uint              `json:"payment_method"` // Payment method ID
	Seller        uint              `json:"seller"`         // Seller user ID
	Buyer         uint              `json:"buyer"`          // Buyer user ID
	Items         []SaleItemRequest `json:"items"`          // Line items
	Total         json.RawMessage   `json:"total"`          // Read-only
	SaleDate      json.RawMessage   `json:"sale_date"`      // Read-only
}

// UpdateSaleRequest changes the header of a sale
type UpdateSaleRequest struct {
	PaymentMethod *uint           `json:"payment_method"` // New payment method ID
	Buyer         *uint           `json:"buyer"`          // New buyer user ID
	Seller        json.RawMessage `json:"seller"`         // Read-only
	Items         json.RawMessage `json:"items"`          // Read-only
	Total         json.RawMessage `json:"total"`          // Read-only
	SaleDate      json.RawMessage `json:"sale_date"`      // Read-only
}

// readOnly returns a validation error for the first read-only field present
func readOnly(fields map[string]json.RawMessage) error {
	for _, name := range []string{"seller", "items", "total", "sale_date"} {
		if raw, ok := fields[name]; ok && len(raw) > 0 {
			return domain.Invalid(name, "this field is read-only")
		}
	}
	return nil
}

// ListSalesHandler returns the requester's sales; anonymous requests get an empty page
func ListSalesHandler(sales *service.Sales) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := middleware.CurrentUser(c) // Resolved identity or nil
		opts, err := parseList(c, saleQuery, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		rows, total, err := sales.List(c.Request.Context(), viewer, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		items := make([]gin.H, len(rows))
		for i, row := range rows {
			items[i] = visibility.Sale(row, viewer)
		}
		c.JSON(http.StatusOK, pageBody("sales", items, total, opts))
	}
}

// GetSaleHandler returns one sale to a participant
func GetSaleHandler(sales *service.Sales) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		viewer := middleware.CurrentUser(c)
		sale, err := sales.Get(c.Request.Context(), viewer, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sale": visibility.Sale(*sale, viewer)})
	}
}

// CreateSaleHandler records a sale and decrements stock
func CreateSaleHandler(sales *service.Sales, lc *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSaleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		if err := readOnly(map[string]json.RawMessage{"total": req.Total, "sale_date": req.SaleDate}); err != nil {
			respondError(c, err)
			return
		}
		in := service.CreateSaleInput{
			PaymentMethodID: req.PaymentMethod, // Payment method
			SellerID:        req.Seller,        // Seller
			BuyerID:         req.Buyer,         // Buyer
		}
		for _, it := range req.Items {
			in.Items = append(in.Items, service.SaleItemInput{ProductID: it.Product, Quantity: it.Quantity})
		}
		viewer := middleware.CurrentUser(c)
		sale, err := sales.Create(c.Request.Context(), viewer, in)
		if err != nil {
			respondError(c, err)
			return
		}
		lc.invalidate(c, nsProducts) // Stock and availability changed
		c.JSON(http.StatusCreated, gin.H{"sale": visibility.Sale(*sale, viewer)})
	}
}

// UpdateSaleHandler changes the buyer or payment method of a sale
func UpdateSaleHandler(sales *service.Sales) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req UpdateSaleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
		fields := map[string]json.RawMessage{"seller": req.Seller, "items": req.Items, "total": req.Total, "sale_date": req.SaleDate}
		if err := readOnly(fields); err != nil {
			respondError(c, err)
			return
		}
		viewer := middleware.CurrentUser(c)
		sale, err := sales.Update(c.Request.Context(), viewer, id, service.UpdateSaleInput{PaymentMethodID: req.PaymentMethod, BuyerID: req.Buyer})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sale": visibility.Sale(*sale, viewer)})
	}
}

// DeleteSaleHandler deletes a sale and its line items
func DeleteSaleHandler(sales *service.Sales) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := sales.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
