package api

import (
	"strconv" // Numeric parameter parsing
	"strings" // Parameter splitting
	"time"    // Date filters

	"inventory_sales/internal/domain"     // Domain errors
	"inventory_sales/internal/repository" // List options
	"inventory_sales/internal/visibility" // Audience checks

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Decimal filters
)

// valueKind selects how a filter value is parsed
type valueKind int

const (
	kindText valueKind = iota
	kindDecimal
	kindID
	kindBool
	kindDate
)

// Operator sets per value kind
var (
	textOps    = []repository.Op{repository.OpExact, repository.OpContains}
	numericOps = []repository.Op{repository.OpExact, repository.OpLT, repository.OpGT, repository.OpLTE, repository.OpGTE}
	exactOps   = []repository.Op{repository.OpExact}
)

// queryField maps a public parameter name to a column
type queryField struct {
	column string
	kind   valueKind
	ops    []repository.Op
}

// listQuery is the filter and ordering allow-list of one collection. A
// parameter is only honoured when the viewer may also see the field.
type listQuery struct {
	entity   string
	filters  map[string]queryField
	ordering map[string]queryField
}

// Allow-lists per collection
var (
	categoryQuery = listQuery{
		entity: visibility.EntityCategory,
		filters: map[string]queryField{
			"name": {column: "name", kind: kindText, ops: textOps},
		},
		ordering: map[string]queryField{
			"id":   {column: "id"},
			"name": {column: "name"},
		},
	}
	paymentMethodQuery = listQuery{
		entity: visibility.EntityPaymentMethod,
		filters: map[string]queryField{
			"name":          {column: "name", kind: kindText, ops: textOps},
			"interest_rate": {column: "interest_rate", kind: kindDecimal, ops: numericOps},
		},
		ordering: map[string]queryField{
			"id":            {column: "id"},
			"name":          {column: "name"},
			"interest_rate": {column: "interest_rate"},
		},
	}
	productQuery = listQuery{
		entity: visibility.EntityProduct,
		filters: map[string]queryField{
			"name":           {column: "name", kind: kindText, ops: textOps},
			"sale_price":     {column: "sale_price", kind: kindDecimal, ops: numericOps},
			"purchase_price": {column: "purchase_price", kind: kindDecimal, ops: numericOps},
			"available":      {column: "available", kind: kindBool, ops: exactOps},
			"category":       {column: "category_id", kind: kindID, ops: exactOps},
		},
		ordering: map[string]queryField{
			"id":         {column: "id"},
			"name":       {column: "name"},
			"sale_price": {column: "sale_price"},
		},
	}
	saleQuery = listQuery{
		entity: visibility.EntitySale,
		filters: map[string]queryField{
			"payment_method": {column: "payment_method_id", kind: kindID, ops: exactOps},
			"total":          {column: "total", kind: kindDecimal, ops: numericOps},
			"sale_date":      {column: "sale_date", kind: kindDate, ops: numericOps},
		},
		ordering: map[string]queryField{
			"id":        {column: "id"},
			"sale_date": {column: "sale_date"},
			"total":     {column: "total"},
			"seller":    {column: "seller_id"},
			"buyer":     {column: "buyer_id"},
		},
	}
	userQuery = listQuery{
		entity: visibility.EntityUser,
		filters: map[string]queryField{
			"username":  {column: "username", kind: kindText, ops: textOps},
			"is_seller": {column: "is_seller", kind: kindBool, ops: exactOps},
			"is_client": {column: "is_client", kind: kindBool, ops: exactOps},
		},
		ordering: map[string]queryField{
			"id":       {column: "id"},
			"username": {column: "username"},
		},
	}
)

// Reserved query parameters
const (
	paramPage     = "page"
	paramPageSize = "page_size"
	paramOrdering = "ordering"
)

// parseList turns the request query into list options. Unknown parameters,
// unsupported operators and staff-only fields asked for by Public viewers
// are ignored; a malformed value for an allowed field is a validation error.
func parseList(c *gin.Context, q listQuery, viewer *domain.User) (repository.ListOptions, error) {
	var opts repository.ListOptions
	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		raw := values[len(values)-1] // Last value wins
		switch key {
		case paramPage, paramPageSize:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return opts, domain.Invalid(key, "must be an integer")
			}
			if key == paramPage {
				opts.Page = n
			} else {
				opts.PageSize = n
			}
			continue
		case paramOrdering:
			opts.Order = parseOrdering(raw, q, viewer)
			continue
		}
		name, op := key, repository.OpExact
		if i := strings.Index(key, "__"); i >= 0 {
			name, op = key[:i], repository.Op(key[i+2:])
		}
		field, ok := q.filters[name]
		if !ok || !visibility.Allows(q.entity, name, viewer) || !supports(field.ops, op) {
			continue
		}
		value, err := parseValue(field.kind, raw)
		if err != nil {
			return opts, domain.Invalid(key, err.Error())
		}
		opts.Filters = append(opts.Filters, repository.Filter{Column: field.column, Op: op, Value: value})
	}
	return opts.Normalize(), nil
}

// parseOrdering reads "field,-field"; unknown fields are dropped
func parseOrdering(raw string, q listQuery, viewer *domain.User) []repository.Order {
	var order []repository.Order
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		field, ok := q.ordering[name]
		if !ok || !visibility.Allows(q.entity, name, viewer) {
			continue
		}
		order = append(order, repository.Order{Column: field.column, Desc: desc})
	}
	return order
}

func supports(ops []repository.Op, op repository.Op) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

// parseValue converts raw into the Go type the column compares against
func parseValue(kind valueKind, raw string) (any, error) {
	switch kind {
	case kindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errInvalidValue("a decimal number")
		}
		return d, nil
	case kindID:
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errInvalidValue("a positive integer")
		}
		return uint(id), nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errInvalidValue("true or false")
		}
		return b, nil
	case kindDate:
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return nil, errInvalidValue("a date as YYYY-MM-DD")
		}
		return t, nil
	default:
		return raw, nil
	}
}

type errInvalidValue string

func (e errInvalidValue) Error() string { return "must be " + string(e) }
