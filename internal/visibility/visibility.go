// Package visibility decides which fields of an entity a viewer may see.
//
// Every projection builds the entity's full field map and then keeps only the
// fields on the static allow-list for the viewer's audience. The decision is
// a pure function of (entity type, viewer flags) evaluated per response.
package visibility

import (
	"strconv" // Link building

	"inventory_sales/internal/domain" // Domain models

	"github.com/gin-gonic/gin" // gin.H response maps
)

// Audience groups viewers that see the same fields.
type Audience int

const (
	// Public is any viewer that is not a seller: anonymous, client-only, or no flags.
	Public Audience = iota
	// Staff is a viewer with the seller capability.
	Staff
)

// Entity names used as allow-list keys
const (
	EntityCategory      = "category"
	EntityPaymentMethod = "payment_method"
	EntityProduct       = "product"
	EntitySale          = "sale"
	EntityUser          = "user"
)

// BasePath prefixes every resource link.
const BasePath = "/api/v1"

// publicFields are the allow-lists for the Public audience. Entities absent
// from the map are never shown to Public viewers through a projection.
var publicFields = map[string][]string{
	EntityCategory:      {"id", "url", "name"},
	EntityPaymentMethod: {"id", "url", "name"},
	EntityProduct:       {"id", "url", "name", "sale_price", "available", "category"},
	EntitySale:          {"id", "url", "payment_method", "items", "total", "seller", "buyer", "sale_date"},
	EntityUser:          {"id", "url", "username"},
}

// AudienceOf classifies viewer; nil means anonymous.
func AudienceOf(viewer *domain.User) Audience {
	if viewer != nil && viewer.IsSeller {
		return Staff
	}
	return Public
}

// Allows reports whether viewer may see field of entity. Staff sees everything.
func Allows(entity, field string, viewer *domain.User) bool {
	if AudienceOf(viewer) == Staff {
		return true
	}
	for _, f := range publicFields[entity] {
		if f == field {
			return true
		}
	}
	return false
}

// project filters full down to the fields viewer may see
func project(entity string, full gin.H, viewer *domain.User) gin.H {
	if AudienceOf(viewer) == Staff {
		return full
	}
	out := gin.H{}
	for _, f := range publicFields[entity] {
		if v, ok := full[f]; ok {
			out[f] = v
		}
	}
	return out
}

// link builds the item URL of a resource
func link(collection string, id uint) string {
	return BasePath + "/" + collection + "/" + strconv.FormatUint(uint64(id), 10)
}

// Category projects a category.
func Category(c domain.Category, viewer *domain.User) gin.H {
	return project(EntityCategory, gin.H{
		"id":   c.ID,
		"url":  link("categories", c.ID),
		"name": c.Name,
	}, viewer)
}

// PaymentMethod projects a payment method; the interest rate is Staff only.
func PaymentMethod(p domain.PaymentMethod, viewer *domain.User) gin.H {
	return project(EntityPaymentMethod, gin.H{
		"id":            p.ID,
		"url":           link("payment-methods", p.ID),
		"name":          p.Name,
		"interest_rate": p.InterestRate.StringFixed(2),
	}, viewer)
}

// Product projects a product; purchase price and stock are Staff only.
func Product(p domain.Product, viewer *domain.User) gin.H {
	return project(EntityProduct, gin.H{
		"id":             p.ID,
		"url":            link("products", p.ID),
		"name":           p.Name,
		"purchase_price": p.PurchasePrice.StringFixed(2),
		"sale_price":     p.SalePrice.StringFixed(2),
		"quantity":       p.Quantity,
		"available":      p.Available,
		"category":       p.CategoryID,
	}, viewer)
}

// Sale projects a sale with its line items. Only participants ever reach
// this projection, so both audiences see the whole record.
func Sale(s domain.Sale, viewer *domain.User) gin.H {
	items := make([]gin.H, len(s.Items))
	for i, it := range s.Items {
		items[i] = gin.H{
			"product":    it.ProductID,
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice.StringFixed(2),
		}
	}
	return project(EntitySale, gin.H{
		"id":             s.ID,
		"url":            link("sales", s.ID),
		"payment_method": s.PaymentMethodID,
		"items":          items,
		"total":          s.Total.StringFixed(2),
		"seller":         s.SellerID,
		"buyer":          s.BuyerID,
		"sale_date":      s.SaleDate.Format("2006-01-02"),
	}, viewer)
}

// User projects an identity with its capability flags.
func User(u domain.User, viewer *domain.User) gin.H {
	return project(EntityUser, gin.H{
		"id":        u.ID,
		"url":       link("users", u.ID),
		"username":  u.Username,
		"is_client": u.IsClient,
		"is_seller": u.IsSeller,
	}, viewer)
}
