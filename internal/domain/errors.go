package domain

import (
	"errors" // Sentinel errors
	"fmt"    // Error formatting
)

// Error kinds. Every error returned by the services wraps exactly one of these.
var (
	ErrUnauthenticated = errors.New("unauthorized") // No or invalid identity
	ErrForbidden       = errors.New("forbidden")    // Identity lacks permission
	ErrValidation      = errors.New("bad request")  // Invalid input or business rule
	ErrNotFound        = errors.New("not found")    // Referenced entity does not exist
	ErrConflict        = errors.New("conflict")     // Uniqueness or reference conflict
)

// Error carries a human readable reason and the offending field, if any.
type Error struct {
	Kind    error  // One of the sentinel kinds above
	Field   string // Offending field, empty when not field specific
	Message string // Human readable reason
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Forbidden builds an authorization error.
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// Unauthenticated builds an authentication error.
func Unauthenticated(msg string) error {
	return &Error{Kind: ErrUnauthenticated, Message: msg}
}

// Invalid builds a validation error for field.
func Invalid(field, msg string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: msg}
}

// NotFound builds a not-found error for the named entity.
func NotFound(entity string, id uint) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

// Conflict builds a conflict error for field.
func Conflict(field, msg string) error {
	return &Error{Kind: ErrConflict, Field: field, Message: msg}
}

// InsufficientStockError reports a line item asking for more than the stock on hand.
type InsufficientStockError struct {
	ProductID   uint   // Offending product
	ProductName string // Product name for the message
	Requested   int    // Total quantity requested for the product
	Available   int    // Quantity in stock at validation time
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: product %s has only %d in stock, %d requested", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrValidation }
